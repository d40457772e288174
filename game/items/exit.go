package items

import "github.com/exor2008/koldun/game/engine"

// Exit is the level goal. It reports a Win on the event following the
// wizard's arrival.
type Exit struct {
	base
	reached bool
}

// NewExit creates an exit at t.
func NewExit(t engine.Target, tile engine.TileID) *Exit {
	return &Exit{base: base{target: t, tile: tile}}
}

func (e *Exit) Kind() engine.Kind { return engine.KindExit }

// Reached reports whether the wizard arrived and the Win is still pending.
func (e *Exit) Reached() bool { return e.reached }

func (e *Exit) OnEvent(engine.Event) []engine.Action {
	if !e.reached {
		return nil
	}
	e.reached = false
	return []engine.Action{engine.Win(e.target)}
}

func (e *Exit) OnReaction(a engine.Action) {
	if a.Kind == engine.ActMove && a.Who == engine.KindWizard && a.Target.SameCell(e.target) {
		e.reached = true
	}
}

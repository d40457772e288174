package items

import (
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/tiles"
)

// WizardState is the animation state of the wizard.
type WizardState uint8

const (
	Idle1 WizardState = iota
	Idle2
	MoveUp1
	MoveUp2
	MoveDown1
	MoveDown2
	MoveLeft1
	MoveLeft2
	MoveRight1
	MoveRight2
)

const (
	// MoveAnimTicks is the duration of the walk animation between two cells.
	MoveAnimTicks = 10

	idlePeriod  = 5
	framePeriod = 2
)

var wizardFrames = map[WizardState]engine.TileID{
	Idle1:      tiles.WizardIdle1,
	Idle2:      tiles.WizardIdle2,
	MoveUp1:    tiles.WizardUp1,
	MoveUp2:    tiles.WizardUp2,
	MoveDown1:  tiles.WizardDown1,
	MoveDown2:  tiles.WizardDown2,
	MoveLeft1:  tiles.WizardLeft1,
	MoveLeft2:  tiles.WizardLeft2,
	MoveRight1: tiles.WizardRight1,
	MoveRight2: tiles.WizardRight2,
}

var moveStart = map[engine.Direction]WizardState{
	engine.Up:    MoveUp1,
	engine.Down:  MoveDown1,
	engine.Left:  MoveLeft1,
	engine.Right: MoveRight1,
}

// Wizard is the player actor. It requests moves on button presses and
// animates the walk once the grid confirms them.
type Wizard struct {
	base
	state WizardState
	// start is the tick the current walk began, now the latest tick seen.
	start uint64
	now   uint64
	prev  engine.Target
	dir   engine.Direction
}

// NewWizard creates an idle wizard at t.
func NewWizard(t engine.Target) *Wizard {
	w := &Wizard{base: base{target: t}, prev: t}
	w.setState(Idle1)
	return w
}

func (w *Wizard) Kind() engine.Kind { return engine.KindWizard }

// State returns the animation state.
func (w *Wizard) State() WizardState { return w.state }

// AnimationStart returns the tick at which the current walk began.
func (w *Wizard) AnimationStart() uint64 { return w.start }

// Moving reports whether a walk animation is in flight.
func (w *Wizard) Moving() bool { return w.state >= MoveUp1 }

func (w *Wizard) OnEvent(ev engine.Event) []engine.Action {
	if ev.IsTick() {
		w.now = ev.Time
		return w.onTick()
	}
	if dir, ok := ev.PressedDirection(); ok {
		return []engine.Action{engine.Move(w.target, dir, engine.KindWizard)}
	}
	return nil
}

func (w *Wizard) onTick() []engine.Action {
	if !w.Moving() {
		if w.now%idlePeriod != 0 {
			return nil
		}
		if w.state == Idle1 {
			w.setState(Idle2)
		} else {
			w.setState(Idle1)
		}
		return []engine.Action{engine.Redraw(w.target)}
	}

	dt := w.now - w.start
	if dt > MoveAnimTicks {
		w.setState(Idle1)
		return []engine.Action{
			engine.Redraw(w.prev),
			engine.Redraw(w.target),
			engine.Block(w.target, false),
		}
	}
	if w.now%framePeriod != 0 {
		return nil
	}
	// Frames come in pairs: the first of each pair has an even offset from MoveUp1.
	if (w.state-MoveUp1)%2 == 0 {
		w.setState(w.state + 1)
	} else {
		w.setState(w.state - 1)
	}
	return []engine.Action{engine.RedrawAnim(w.target, w.shift(dt), w.prev)}
}

// shift is the pixel offset of the sprite from its new cell dt ticks into the
// walk: a full tile back towards the old cell at dt 0, nothing at the end.
func (w *Wizard) shift(dt uint64) engine.Pos {
	off := engine.TileSize * (MoveAnimTicks - int(dt)) / MoveAnimTicks
	dx, dy := w.dir.Delta()
	return engine.Pos{X: -dx * off, Y: -dy * off}
}

func (w *Wizard) OnReaction(a engine.Action) {
	if a.Kind != engine.ActMove || a.Who != engine.KindWizard {
		return
	}
	w.prev = w.target
	w.target = a.Target
	w.dir = a.Direction
	w.start = w.now
	w.setState(moveStart[a.Direction])
}

func (w *Wizard) setState(s WizardState) {
	w.state = s
	w.tile = wizardFrames[s]
}

func (s WizardState) String() string {
	names := [...]string{
		"idle1", "idle2",
		"move_up1", "move_up2",
		"move_down1", "move_down2",
		"move_left1", "move_left2",
		"move_right1", "move_right2",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

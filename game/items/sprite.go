package items

import "github.com/exor2008/koldun/game/engine"

// Sprite is static decoration: floor, walls, trees.
type Sprite struct {
	base
}

// NewSprite creates a decoration at t.
func NewSprite(t engine.Target, tile engine.TileID) *Sprite {
	return &Sprite{base{target: t, tile: tile}}
}

func (s *Sprite) OnEvent(engine.Event) []engine.Action { return nil }

func (s *Sprite) OnReaction(engine.Action) {}

func (s *Sprite) Kind() engine.Kind { return engine.KindSprite }

package items

import "github.com/exor2008/koldun/game/engine"

// base carries the fields every item shares.
type base struct {
	target engine.Target
	tile   engine.TileID
}

func (b *base) Target() engine.Target { return b.target }

func (b *base) TileID() engine.TileID { return b.tile }

func (b *base) Layer() int { return b.target.Z }

func (b *base) Place(t engine.Target) { b.target = t }

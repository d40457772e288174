package engine

import "fmt"

// Cell is one board position. It owns up to Layers items, one per depth.
type Cell struct {
	items [Layers]Item
}

// SetItem stores item at the layer it declares. It panics if that layer is
// taken; callers check HasItem first.
func (c *Cell) SetItem(item Item) {
	z := item.Layer()
	if z < 0 || z >= Layers {
		panic(fmt.Sprintf("cell: layer %d out of range", z))
	}
	if c.items[z] != nil {
		panic(fmt.Sprintf("cell: layer %d already occupied by %s", z, c.items[z].Kind()))
	}
	c.items[z] = item
}

// TakeItem removes and returns the item at layer z, or nil.
func (c *Cell) TakeItem(z int) Item {
	if z < 0 || z >= Layers {
		return nil
	}
	item := c.items[z]
	c.items[z] = nil
	return item
}

// HasItem reports whether layer z is occupied.
func (c *Cell) HasItem(z int) bool {
	return z >= 0 && z < Layers && c.items[z] != nil
}

// Item returns the item at layer z without removing it.
func (c *Cell) Item(z int) Item {
	if z < 0 || z >= Layers {
		return nil
	}
	return c.items[z]
}

// Len returns the number of occupied layers.
func (c *Cell) Len() int {
	n := 0
	for _, item := range c.items {
		if item != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no layer is occupied.
func (c *Cell) IsEmpty() bool { return c.Len() == 0 }

// OnEvent forwards ev to every occupant, bottom layer first.
func (c *Cell) OnEvent(ev Event) []Action {
	out := NewBounded[Action]("cell actions", MaxActionsPerItem*Layers)
	for _, item := range c.items {
		if item == nil {
			continue
		}
		actions := item.OnEvent(ev)
		if len(actions) > MaxActionsPerItem {
			panic(&CapacityError{Container: "item actions", Capacity: MaxActionsPerItem})
		}
		out.Extend(actions)
	}
	return out.Items()
}

// OnReaction delivers a confirmed action to the occupant of a.Target.Z.
func (c *Cell) OnReaction(a Action) {
	if item := c.Item(a.Target.Z); item != nil {
		item.OnReaction(a)
	}
}

// TileID returns the sprite of the topmost occupant. Every cell keeps at least
// a background occupant, so calling it on an empty cell panics.
func (c *Cell) TileID() TileID {
	for z := Layers - 1; z >= 0; z-- {
		if c.items[z] != nil {
			return c.items[z].TileID()
		}
	}
	panic("cell: tile id of an empty cell")
}

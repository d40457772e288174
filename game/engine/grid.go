package engine

import "fmt"

// BlockFlag is the optional input-gate update produced by a resolution pass.
type BlockFlag uint8

const (
	BlockKeep BlockFlag = iota
	BlockOn
	BlockOff
)

// Outcome is the result of Grid.OnActions.
type Outcome struct {
	Reactions []Action
	Redraw    RedrawBatch
	Block     BlockFlag
	Win       bool
}

// Grid is the fixed MaxX by MaxY board and the action resolver.
//
// Cells are always visited x outer, y inner. Actions of one pass are therefore
// ordered column by column, and within a cell bottom layer first.
type Grid struct {
	cells [MaxY][MaxX]Cell
}

// NewGrid returns an empty board.
func NewGrid() *Grid {
	return &Grid{}
}

// Transplant moves every item of src into a fresh grid, keeping positions.
// src is left empty.
func Transplant(src *Grid) *Grid {
	dst := NewGrid()
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			for z := 0; z < Layers; z++ {
				if item := src.cells[y][x].TakeItem(z); item != nil {
					dst.cells[y][x].SetItem(item)
				}
			}
		}
	}
	return dst
}

// Cell returns the cell at (x, y). Addressing outside the board panics.
func (g *Grid) Cell(x, y int) *Cell {
	if x < 0 || x >= MaxX || y < 0 || y >= MaxY {
		panic(fmt.Sprintf("grid: cell (%d,%d) out of bounds", x, y))
	}
	return &g.cells[y][x]
}

// Place stores item at its own target.
func (g *Grid) Place(item Item) {
	t := item.Target()
	g.Cell(t.X, t.Y).SetItem(item)
}

// HasItem reports whether slot t is occupied. Out of bounds slots report false.
func (g *Grid) HasItem(t Target) bool {
	if !t.InBounds() {
		return false
	}
	return g.cells[t.Y][t.X].HasItem(t.Z)
}

// Item returns the occupant of t, or nil.
func (g *Grid) Item(t Target) Item {
	if !t.InBounds() {
		return nil
	}
	return g.cells[t.Y][t.X].Item(t.Z)
}

// TileID returns the sprite of the topmost occupant of (x, y).
func (g *Grid) TileID(x, y int) TileID {
	return g.Cell(x, y).TileID()
}

// Find returns the target of the first item of the given kind in iteration order.
func (g *Grid) Find(kind Kind) (Target, bool) {
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			for z := 0; z < Layers; z++ {
				if item := g.cells[y][x].items[z]; item != nil && item.Kind() == kind {
					return item.Target(), true
				}
			}
		}
	}
	return Target{}, false
}

// Count returns the number of items on the board.
func (g *Grid) Count() int {
	n := 0
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			n += g.cells[y][x].Len()
		}
	}
	return n
}

// OnEvent forwards ev to every cell and collects the requested actions.
func (g *Grid) OnEvent(ev Event) []Action {
	out := NewBounded[Action]("grid actions", MaxEvents)
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			out.Extend(g.cells[y][x].OnEvent(ev))
		}
	}
	return out.Items()
}

// OnActions resolves the requested actions in order.
func (g *Grid) OnActions(actions []Action) Outcome {
	reactions := NewBounded[Action]("reactions", MaxEvents)
	out := Outcome{Redraw: NewRedrawBatch()}

	for _, a := range actions {
		switch a.Kind {
		case ActMove:
			dst, err := g.MoveItem(a.Target, a.Direction)
			if err != nil {
				continue
			}
			for z := 0; z < Layers; z++ {
				reactions.Push(Move(Target{X: dst.X, Y: dst.Y, Z: z}, a.Direction, a.Who))
			}
			out.Block = BlockOn
		case ActRedraw:
			out.Redraw.Add(RedrawRequest{Target: a.Target})
		case ActRedrawAnim:
			out.Redraw.Add(RedrawRequest{Target: a.Previous})
			out.Redraw.Add(RedrawRequest{Target: a.Target, Shift: a.Shift})
		case ActInitSpell:
			if t, ok := g.castSpell(a.Direction); ok {
				out.Redraw.Add(RedrawRequest{Target: t})
			}
		case ActBlock:
			if a.Block {
				out.Block = BlockOn
			} else {
				out.Block = BlockOff
			}
		case ActWin:
			out.Win = true
		}
	}

	out.Reactions = reactions.Items()
	return out
}

// OnReactions delivers each reaction to the current occupant of its target.
func (g *Grid) OnReactions(reactions []Action) {
	for _, r := range reactions {
		if !r.Target.InBounds() {
			continue
		}
		g.cells[r.Target.Y][r.Target.X].OnReaction(r)
	}
}

// Resolve runs one event through OnEvent, OnActions and OnReactions.
func (g *Grid) Resolve(ev Event) Outcome {
	out := g.OnActions(g.OnEvent(ev))
	g.OnReactions(out.Reactions)
	return out
}

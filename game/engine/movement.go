package engine

import "errors"

// ErrInvalidMove is returned when a destination is off the board or occupied.
var ErrInvalidMove = errors.New("invalid move")

// MoveItem moves the occupant of src one cell in d. The item is taken out
// first and put back on failure, so it is never left unowned.
func (g *Grid) MoveItem(src Target, d Direction) (Target, error) {
	if !src.InBounds() {
		return src, ErrInvalidMove
	}
	from := &g.cells[src.Y][src.X]
	item := from.TakeItem(src.Z)
	if item == nil {
		return src, ErrInvalidMove
	}

	dst := src.Step(d)
	if !dst.InBounds() || g.cells[dst.Y][dst.X].HasItem(dst.Z) {
		from.SetItem(item)
		return src, ErrInvalidMove
	}

	g.cells[dst.Y][dst.X].SetItem(item)
	return dst, nil
}

// castSpell moves the staged spell next to the wizard. The grid is unchanged
// when there is no wizard, no staged item or the destination slot is taken.
func (g *Grid) castSpell(d Direction) (Target, bool) {
	wizard, ok := g.Find(KindWizard)
	if !ok {
		return Target{}, false
	}
	dst := wizard.Step(d)
	if !dst.InBounds() || g.cells[dst.Y][dst.X].HasItem(dst.Z) {
		return Target{}, false
	}
	spell := g.cells[Staging.Y][Staging.X].TakeItem(Staging.Z)
	if spell == nil {
		return Target{}, false
	}
	spell.Place(dst)
	g.cells[dst.Y][dst.X].SetItem(spell)
	return dst, true
}

// Package engine implements the board and the action resolver of the game.
//
// The board is a fixed MaxX by MaxY Grid of Cells. Each Cell owns up to
// Layers items, one per depth; layer 0 holds the background and layer 1 the
// foreground (walls, the wizard, a cast spell).
//
// Resolution:
//
// One event is resolved in three steps. Grid.OnEvent asks every item for
// actions. Grid.OnActions accepts or drops them: a Move is applied only when
// its destination slot is free, redraws are collected into a deduplicated
// RedrawBatch, and Block and Win flags are reported in the Outcome.
// Grid.OnReactions finally hands every accepted move back to the item now
// occupying the destination, which is where items update their own state.
//
//	out := grid.Resolve(engine.Tick(42))
//	for _, r := range out.Redraw.Requests() {
//		// paint grid.Cell(r.Target.X, r.Target.Y).TileID() shifted by r.Shift
//	}
//
// Capacities:
//
// Every intermediate collection has a fixed capacity (MaxActionsPerItem,
// MaxEvents, MaxRedraw). Exceeding one panics with a *CapacityError. A failed
// move is not an error for the caller; it is silently dropped.
package engine

package engine

// Item is an occupant of a cell. An item never moves itself inside the grid:
// it requests moves through actions and learns the outcome from reactions.
type Item interface {
	// OnEvent returns at most MaxActionsPerItem actions.
	OnEvent(ev Event) []Action
	// OnReaction receives an action the grid confirmed for this slot.
	OnReaction(a Action)
	Target() Target
	TileID() TileID
	Layer() int
	Kind() Kind
	// Place relocates the item when the grid moves it on its behalf.
	Place(t Target)
}

package engine

import "fmt"

// ActionKind tags the payload carried by an Action.
type ActionKind uint8

const (
	ActMove ActionKind = iota
	ActRedraw
	ActRedrawAnim
	ActBlock
	ActInitSpell
	ActWin
)

func (k ActionKind) String() string {
	switch k {
	case ActMove:
		return "move"
	case ActRedraw:
		return "redraw"
	case ActRedrawAnim:
		return "redraw_anim"
	case ActBlock:
		return "block"
	case ActInitSpell:
		return "init_spell"
	case ActWin:
		return "win"
	}
	return "unknown"
}

// Action is a request emitted by an item, or a reaction delivered back to one
// once the grid accepted it. Only the fields of its Kind are meaningful.
type Action struct {
	Target Target
	Kind   ActionKind

	Direction Direction // ActMove, ActInitSpell
	Who       Kind      // ActMove
	Shift     Pos       // ActRedrawAnim
	Previous  Target    // ActRedrawAnim
	Block     bool      // ActBlock
}

// Move requests moving the item at t one cell in d.
func Move(t Target, d Direction, who Kind) Action {
	return Action{Target: t, Kind: ActMove, Direction: d, Who: who}
}

// Redraw requests repainting the cell of t.
func Redraw(t Target) Action {
	return Action{Target: t, Kind: ActRedraw}
}

// RedrawAnim requests clearing prev and painting t shifted by shift pixels.
func RedrawAnim(t Target, shift Pos, prev Target) Action {
	return Action{Target: t, Kind: ActRedrawAnim, Shift: shift, Previous: prev}
}

// Block sets or releases the input gate.
func Block(t Target, block bool) Action {
	return Action{Target: t, Kind: ActBlock, Block: block}
}

// InitSpell requests casting the staged spell next to the wizard.
func InitSpell(t Target, d Direction) Action {
	return Action{Target: t, Kind: ActInitSpell, Direction: d}
}

// Win reports that the level goal was reached.
func Win(t Target) Action {
	return Action{Target: t, Kind: ActWin}
}

func (a Action) String() string {
	switch a.Kind {
	case ActMove:
		return fmt.Sprintf("move(%v %s %s)", a.Target, a.Direction, a.Who)
	case ActRedrawAnim:
		return fmt.Sprintf("redraw_anim(%v shift=%v prev=%v)", a.Target, a.Shift, a.Previous)
	case ActBlock:
		return fmt.Sprintf("block(%v %t)", a.Target, a.Block)
	case ActInitSpell:
		return fmt.Sprintf("init_spell(%v %s)", a.Target, a.Direction)
	}
	return fmt.Sprintf("%s(%v)", a.Kind, a.Target)
}

// RedrawRequest asks the level to repaint one board position.
type RedrawRequest struct {
	Target Target
	Shift  Pos
}

// RedrawBatch is the set of redraw requests of one resolution pass.
// Requests are kept in insertion order and deduplicated by target.
type RedrawBatch struct {
	list *Bounded[RedrawRequest]
}

// NewRedrawBatch creates an empty batch with capacity MaxRedraw.
func NewRedrawBatch() RedrawBatch {
	return RedrawBatch{list: NewBounded[RedrawRequest]("redraw batch", MaxRedraw)}
}

// Add inserts r unless a request for the same target is already present.
func (b *RedrawBatch) Add(r RedrawRequest) bool {
	if b.list == nil {
		*b = NewRedrawBatch()
	}
	if b.Contains(r.Target) {
		return false
	}
	b.list.Push(r)
	return true
}

// Contains reports whether a request for t is present.
func (b RedrawBatch) Contains(t Target) bool {
	for _, r := range b.Requests() {
		if r.Target == t {
			return true
		}
	}
	return false
}

// Requests returns the batch in insertion order.
func (b RedrawBatch) Requests() []RedrawRequest {
	if b.list == nil {
		return nil
	}
	return b.list.Items()
}

// Len returns the number of requests.
func (b RedrawBatch) Len() int { return len(b.Requests()) }

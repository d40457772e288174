package engine

import "testing"

func TestCellSetAndTake(t *testing.T) {
	var c Cell
	bg := newStub(2, 3, 0, 1)
	fg := newStub(2, 3, 1, 40)

	c.SetItem(bg)
	c.SetItem(fg)

	if !c.HasItem(0) || !c.HasItem(1) {
		t.Fatal("expected both layers occupied")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 items, got %d", c.Len())
	}
	if got := c.TileID(); got != 40 {
		t.Errorf("expected topmost tile 40, got %d", got)
	}

	if taken := c.TakeItem(1); taken != fg {
		t.Error("expected foreground item")
	}
	if c.HasItem(1) {
		t.Error("layer 1 should be empty after take")
	}
	if got := c.TileID(); got != 1 {
		t.Errorf("expected background tile 1, got %d", got)
	}
	if c.TakeItem(1) != nil {
		t.Error("taking an empty layer returns nil")
	}
}

func TestCellSetOccupiedLayerPanics(t *testing.T) {
	var c Cell
	c.SetItem(newStub(0, 0, 1, 40))
	expectPanic(t, func() { c.SetItem(newStub(0, 0, 1, 41)) })
}

func TestCellEmptyTileIDPanics(t *testing.T) {
	var c Cell
	if !c.IsEmpty() {
		t.Fatal("new cell must be empty")
	}
	expectPanic(t, func() { c.TileID() })
}

func TestCellOnEventConcatenates(t *testing.T) {
	var c Cell
	bg := newStub(1, 1, 0, 1)
	bg.emit = []Action{Redraw(bg.target)}
	fg := newStub(1, 1, 1, 40)
	fg.emit = []Action{Redraw(fg.target), Block(fg.target, false)}
	c.SetItem(fg)
	c.SetItem(bg)

	actions := c.OnEvent(Tick(1))
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
	if actions[0].Target.Z != 0 {
		t.Error("background actions come first")
	}
}

func TestCellOnEventTooManyActionsPanics(t *testing.T) {
	var c Cell
	s := newStub(0, 0, 0, 1)
	for i := 0; i <= MaxActionsPerItem; i++ {
		s.emit = append(s.emit, Redraw(s.target))
	}
	c.SetItem(s)
	expectPanic(t, func() { c.OnEvent(Tick(1)) })
}

func TestCellOnReactionTargetsLayer(t *testing.T) {
	var c Cell
	bg := newStub(0, 0, 0, 1)
	fg := newStub(0, 0, 1, 40)
	c.SetItem(bg)
	c.SetItem(fg)

	c.OnReaction(Win(Target{0, 0, 1}))

	if len(fg.reactions) != 1 {
		t.Errorf("expected foreground to receive 1 reaction, got %d", len(fg.reactions))
	}
	if len(bg.reactions) != 0 {
		t.Errorf("expected background to receive nothing, got %d", len(bg.reactions))
	}
}

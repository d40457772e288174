package engine

import "testing"

// stubItem is a scriptable occupant used by the engine tests.
type stubItem struct {
	target    Target
	tile      TileID
	kind      Kind
	emit      []Action
	emitOnce  bool
	reactions []Action
	events    int
}

func newStub(x, y, z int, tile TileID) *stubItem {
	return &stubItem{target: Target{X: x, Y: y, Z: z}, tile: tile, kind: KindSprite}
}

func (s *stubItem) OnEvent(ev Event) []Action {
	s.events++
	out := s.emit
	if s.emitOnce {
		s.emit = nil
	}
	return out
}

func (s *stubItem) OnReaction(a Action) {
	s.reactions = append(s.reactions, a)
	if a.Kind == ActMove {
		s.target = a.Target
	}
}

func (s *stubItem) Target() Target { return s.target }
func (s *stubItem) TileID() TileID { return s.tile }
func (s *stubItem) Layer() int     { return s.target.Z }
func (s *stubItem) Kind() Kind     { return s.kind }
func (s *stubItem) Place(t Target) { s.target = t }

// filledGrid returns a grid with a background stub in every cell.
func filledGrid() *Grid {
	g := NewGrid()
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			g.Place(newStub(x, y, 0, 1))
		}
	}
	return g
}

func expectPanic(t *testing.T, fn func()) (recovered interface{}) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
	return nil
}

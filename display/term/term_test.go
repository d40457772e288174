package term

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

type recordingPad struct {
	mu      sync.Mutex
	presses []engine.Button
}

func (p *recordingPad) Press(_ context.Context, b engine.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presses = append(p.presses, b)
	return nil
}

func (p *recordingPad) get() []engine.Button {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]engine.Button(nil), p.presses...)
}

func TestStepFitsScreen(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{480, 160, 1},
		{240, 80, 2},
		{120, 40, 4},
		{80, 24, 7},
	}
	for _, tt := range tests {
		term := New(newScreen(t, tt.w, tt.h), display.NewCanvas())
		if term.Step() != tt.want {
			t.Errorf("%dx%d: expected step %d, got %d", tt.w, tt.h, tt.want, term.Step())
		}
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	screen := newScreen(t, 120, 40)
	canvas := display.NewCanvas()
	ctx := context.Background()
	if err := canvas.DrawSolidArea(ctx, image.Rect(0, 0, 32, 32), display.WizardFG); err != nil {
		t.Fatalf("DrawSolidArea: %v", err)
	}

	term := New(screen, canvas)
	term.Render()

	r, _, _, _ := screen.GetContent(0, 0)
	if r != '▀' {
		t.Errorf("Expected a half block, got %q", r)
	}
	// 32 canvas pixels at step 4 cover 8 columns and 4 rows.
	r, _, _, _ = screen.GetContent(8, 4)
	if r != '▀' {
		t.Errorf("Expected the board painted past the tile, got %q", r)
	}
}

func TestKeyButton(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want engine.Button
		ok   bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), engine.ButtonUp, true},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), engine.ButtonLeft, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), engine.ButtonReset, true},
		{"wasd", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), engine.ButtonRight, true},
		{"vi", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), engine.ButtonDown, true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), engine.ButtonReset, true},
		{"other", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyButton(tt.ev)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Expected (%v, %t), got (%v, %t)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestRunForwardsKeysUntilQuit(t *testing.T) {
	screen := newScreen(t, 120, 40)
	term := New(screen, display.NewCanvas())
	pad := &recordingPad{}

	done := make(chan error, 1)
	go func() { done <- term.Run(context.Background(), pad) }()

	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on q")
	}

	got := pad.get()
	if len(got) != 2 || got[0] != engine.ButtonRight || got[1] != engine.ButtonReset {
		t.Errorf("Expected [right reset], got %v", got)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	term := New(newScreen(t, 120, 40), display.NewCanvas())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- term.Run(ctx, &recordingPad{}) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

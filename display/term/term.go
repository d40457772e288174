package term

import (
	"context"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

// frameInterval caps how often the terminal is repainted.
const frameInterval = time.Second / 30

// Pad receives the buttons read from the keyboard.
type Pad interface {
	Press(ctx context.Context, b engine.Button) error
}

// Terminal shows a Canvas in a terminal. Every character cell holds two
// vertically stacked pixels drawn with an upper half block, the top pixel
// as foreground and the bottom one as background.
type Terminal struct {
	screen  tcell.Screen
	canvas  *display.Canvas
	step    int
	version uint64
}

// New wraps an initialized screen.
func New(screen tcell.Screen, canvas *display.Canvas) *Terminal {
	t := &Terminal{screen: screen, canvas: canvas}
	t.resize()
	return t
}

// Step is the number of canvas pixels sampled per terminal column.
func (t *Terminal) Step() int { return t.step }

// resize picks the smallest sampling step that fits the canvas on screen.
func (t *Terminal) resize() {
	w, h := t.screen.Size()
	step := 1
	for step < display.Width && (display.Width/step > w || display.Height/(2*step) > h) {
		step++
	}
	t.step = step
	t.version = 0
}

// Render repaints the screen from the canvas. It does nothing when the
// canvas has not changed since the last call.
func (t *Terminal) Render() {
	v := t.canvas.Version()
	if v == t.version && v != 0 {
		return
	}
	t.version = v
	t.paint(t.canvas.Snapshot())
	t.screen.Show()
}

func (t *Terminal) paint(img *image.RGBA) {
	t.screen.Clear()
	cols := display.Width / t.step
	rows := display.Height / (2 * t.step)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := col * t.step
			y := row * 2 * t.step
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+t.step)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(col, row, '▀', nil, style)
		}
	}
}

// KeyButton maps a key to a pad button: arrows, WASD and hjkl move, Enter,
// space and r are reset.
func KeyButton(ev *tcell.EventKey) (engine.Button, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.ButtonUp, true
	case tcell.KeyDown:
		return engine.ButtonDown, true
	case tcell.KeyLeft:
		return engine.ButtonLeft, true
	case tcell.KeyRight:
		return engine.ButtonRight, true
	case tcell.KeyEnter:
		return engine.ButtonReset, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return engine.ButtonUp, true
		case 's', 'j':
			return engine.ButtonDown, true
		case 'a', 'h':
			return engine.ButtonLeft, true
		case 'd', 'l':
			return engine.ButtonRight, true
		case ' ', 'r':
			return engine.ButtonReset, true
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
}

// Run forwards key presses to pad and repaints on canvas changes until ctx is
// done or the player quits with Esc, Ctrl-C or q. A terminal reports no key
// releases, so every key is a full press and release.
func (t *Terminal) Run(ctx context.Context, pad Pad) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	t.Render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Render()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
				t.resize()
				t.Render()
			case *tcell.EventKey:
				if isQuit(ev) {
					return nil
				}
				if b, ok := KeyButton(ev); ok {
					if err := pad.Press(ctx, b); err != nil {
						return err
					}
				}
			}
		}
	}
}

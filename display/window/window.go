package window

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

// Scale is the initial window size as a multiple of the panel.
const Scale = 2

// Pusher receives the button events read from the keyboard.
type Pusher interface {
	Push(ctx context.Context, ev engine.Event) error
}

// KeySource reports key transitions of the current frame.
type KeySource interface {
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenKeys) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

// Bindings maps keyboard keys to pad buttons.
var Bindings = map[ebiten.Key]engine.Button{
	ebiten.KeyArrowUp:    engine.ButtonUp,
	ebiten.KeyArrowDown:  engine.ButtonDown,
	ebiten.KeyArrowLeft:  engine.ButtonLeft,
	ebiten.KeyArrowRight: engine.ButtonRight,
	ebiten.KeyW:          engine.ButtonUp,
	ebiten.KeyS:          engine.ButtonDown,
	ebiten.KeyA:          engine.ButtonLeft,
	ebiten.KeyD:          engine.ButtonRight,
	ebiten.KeyEnter:      engine.ButtonReset,
	ebiten.KeySpace:      engine.ButtonReset,
}

// Game is an ebiten.Game showing a Canvas. Unlike a terminal, the window sees
// real key releases, so presses and releases reach the pad separately.
type Game struct {
	ctx     context.Context
	canvas  *display.Canvas
	pad     Pusher
	keys    KeySource
	frame   *ebiten.Image
	version uint64
}

// New creates a window game. It ends when ctx is done or the pad stops
// accepting events.
func New(ctx context.Context, canvas *display.Canvas, pad Pusher) *Game {
	return &Game{ctx: ctx, canvas: canvas, pad: pad, keys: ebitenKeys{}}
}

// Update forwards key transitions to the pad.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || g.keys.JustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, ev := range g.poll() {
		if err := g.pad.Push(g.ctx, ev); err != nil {
			if errors.Is(err, context.Canceled) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

// poll collects the button events of this frame, presses first.
func (g *Game) poll() []engine.Event {
	var events []engine.Event
	for _, b := range engine.Buttons {
		for k, kb := range Bindings {
			if kb == b && g.keys.JustPressed(k) {
				events = append(events, engine.Press(b))
				break
			}
		}
	}
	for _, b := range engine.Buttons {
		for k, kb := range Bindings {
			if kb == b && g.keys.JustReleased(k) {
				events = append(events, engine.Release(b))
				break
			}
		}
	}
	return events
}

// Draw copies the canvas into the window when it changed.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(display.Width, display.Height)
	}
	if v := g.canvas.Version(); v != g.version || g.version == 0 {
		g.version = v
		g.frame.WritePixels(g.canvas.Snapshot().Pix)
	}
	screen.DrawImage(g.frame, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.Width, display.Height
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, title string, canvas *display.Canvas, pad Pusher) error {
	ebiten.SetWindowSize(display.Width*Scale, display.Height*Scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(New(ctx, canvas, pad)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

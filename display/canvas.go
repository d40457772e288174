package display

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextFace is the font used by Canvas.DrawText.
var TextFace = basicfont.Face7x13

// Canvas is an in-memory framebuffer implementing Display. Presenters read it
// through Snapshot and are notified of every change through Changes.
type Canvas struct {
	mu      sync.RWMutex
	img     *image.RGBA
	version uint64
	changes chan image.Rectangle
}

// NewCanvas creates a black Width by Height framebuffer.
func NewCanvas() *Canvas {
	c := &Canvas{
		img:     image.NewRGBA(image.Rect(0, 0, Width, Height)),
		changes: make(chan image.Rectangle, 256),
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
	return c
}

// Clear fills the whole screen.
func (c *Canvas) Clear(_ context.Context, col Color) error {
	c.mu.Lock()
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	c.mu.Unlock()
	c.touched(c.img.Bounds())
	return nil
}

// DrawTile paints a TileSide by TileSide RGB565 bitmap, clipped to the screen.
func (c *Canvas) DrawTile(_ context.Context, origin image.Point, bitmap []byte) error {
	side := TileSide
	if len(bitmap) != side*side*2 {
		return fmt.Errorf("draw tile: %w: got %d bytes, want %d", ErrBitmapSize, len(bitmap), side*side*2)
	}

	area := image.Rect(origin.X, origin.Y, origin.X+side, origin.Y+side).Intersect(c.img.Bounds())
	if area.Empty() {
		return nil
	}

	c.mu.Lock()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			i := (y-origin.Y)*side + (x - origin.X)
			c.img.Set(x, y, ColorAt(bitmap, i).NRGBA())
		}
	}
	c.mu.Unlock()
	c.touched(area)
	return nil
}

// DrawSolidArea fills area, clipped to the screen.
func (c *Canvas) DrawSolidArea(_ context.Context, area image.Rectangle, col Color) error {
	area = area.Intersect(c.img.Bounds())
	if area.Empty() {
		return nil
	}
	c.mu.Lock()
	draw.Draw(c.img, area, image.NewUniform(col), image.Point{}, draw.Src)
	c.mu.Unlock()
	c.touched(area)
	return nil
}

// DrawText renders text with TextFace.
func (c *Canvas) DrawText(_ context.Context, text string, origin image.Point, fg Color, bg *Color) error {
	area := TextBounds(text, origin).Intersect(c.img.Bounds())

	c.mu.Lock()
	if bg != nil {
		draw.Draw(c.img, area, image.NewUniform(*bg), image.Point{}, draw.Src)
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fg),
		Face: TextFace,
		Dot:  fixed.P(origin.X, origin.Y+TextFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	c.mu.Unlock()
	c.touched(area)
	return nil
}

// TextBounds returns the rectangle covered by text drawn at origin.
func TextBounds(text string, origin image.Point) image.Rectangle {
	width := font.MeasureString(TextFace, text).Ceil()
	height := TextFace.Metrics().Height.Ceil()
	return image.Rect(origin.X, origin.Y, origin.X+width, origin.Y+height)
}

// Snapshot returns a copy of the framebuffer.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.img.RGBAAt(x, y)
	return RGB(p.R, p.G, p.B)
}

// Version counts the draw operations applied so far.
func (c *Canvas) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Changes delivers the rectangle of every draw operation. Notifications are
// dropped when nobody keeps up with the channel.
func (c *Canvas) Changes() <-chan image.Rectangle {
	return c.changes
}

func (c *Canvas) touched(area image.Rectangle) {
	c.mu.Lock()
	c.version++
	c.mu.Unlock()
	select {
	case c.changes <- area:
	default:
	}
}

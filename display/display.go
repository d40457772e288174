package display

import (
	"context"
	"errors"
	"image"
	"image/color"
)

// Screen geometry of the target panel.
const (
	Width  = 480
	Height = 320

	// TileSide is the edge of a tile bitmap in pixels.
	TileSide = 32
	// TileBytes is the size of one RGB565 tile bitmap.
	TileBytes = TileSide * TileSide * 2
)

// ErrBitmapSize is returned when a tile bitmap does not hold a full tile.
var ErrBitmapSize = errors.New("bitmap size mismatch")

// Display is the drawing surface the game renders to. Every call returns once
// the operation has completed.
type Display interface {
	Clear(ctx context.Context, c Color) error
	// DrawTile paints a square RGB565 bitmap with its top-left corner at origin.
	DrawTile(ctx context.Context, origin image.Point, bitmap []byte) error
	DrawSolidArea(ctx context.Context, area image.Rectangle, c Color) error
	// DrawText writes text with its top-left corner at origin. A nil bg leaves
	// the pixels behind the glyphs untouched.
	DrawText(ctx context.Context, text string, origin image.Point, fg Color, bg *Color) error
}

// Color is a 16-bit RGB565 pixel.
type Color uint16

// RGB packs 8-bit channels into RGB565.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA expands the color to 8-bit channels.
func (c Color) NRGBA() color.NRGBA {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f
	return color.NRGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xff,
	}
}

// Bytes returns the big-endian wire form of the color.
func (c Color) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c)}
}

// ColorAt decodes the pixel at index i of a big-endian RGB565 bitmap.
func ColorAt(bitmap []byte, i int) Color {
	return Color(uint16(bitmap[2*i])<<8 | uint16(bitmap[2*i+1]))
}

// Ptr returns a pointer to c, for the optional background of DrawText.
func Ptr(c Color) *Color { return &c }

// Palette.
var (
	Black = RGB(0, 0, 0)
	White = RGB(255, 255, 255)

	StartMenuBG     = RGB(32, 4, 80)
	StartMenuTile   = RGB(200, 40, 40)
	StartMenuText   = RGB(230, 200, 120)
	StartMenuTextBG = RGB(88, 48, 168)
	DarkRed         = RGB(80, 0, 0)

	WallFG   = RGB(150, 140, 120)
	WallBG   = RGB(20, 18, 28)
	GroundFG = RGB(70, 60, 50)
	GrassFG  = RGB(60, 130, 60)
	TreeFG   = RGB(40, 160, 70)
	WizardFG = RGB(120, 160, 255)
	ExitFG   = RGB(240, 200, 60)
	SpellFG  = RGB(255, 110, 200)
)

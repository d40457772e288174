package tiles

import (
	"fmt"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

const (
	// PackedBytes is the size of a 1-bit TileSide by TileSide glyph.
	PackedBytes = display.TileSide * display.TileSide / 8

	scale = display.TileSide / 8
)

// Pack returns the 1-bit form of the glyph of id, MSB first, row major.
func Pack(id engine.TileID) ([]byte, error) {
	g, ok := glyphs[id]
	if !ok {
		return nil, fmt.Errorf("pack tile %d: unknown tile", id)
	}
	out := make([]byte, PackedBytes)
	for y := 0; y < display.TileSide; y++ {
		row := g.rows[y/scale]
		for x := 0; x < display.TileSide; x++ {
			if row[x/scale] != '#' {
				continue
			}
			bit := y*display.TileSide + x
			out[bit/8] |= 0x80 >> (bit % 8)
		}
	}
	return out, nil
}

// Render expands a packed glyph into an RGB565 bitmap.
func Render(packed []byte, fg, bg display.Color) ([]byte, error) {
	if len(packed) != PackedBytes {
		return nil, fmt.Errorf("render tile: %w: got %d bytes", display.ErrBitmapSize, len(packed))
	}
	out := make([]byte, 0, display.TileBytes)
	fgb, bgb := fg.Bytes(), bg.Bytes()
	for bit := 0; bit < display.TileSide*display.TileSide; bit++ {
		if packed[bit/8]&(0x80>>(bit%8)) != 0 {
			out = append(out, fgb[0], fgb[1])
		} else {
			out = append(out, bgb[0], bgb[1])
		}
	}
	return out, nil
}

// Bitmap packs and renders id with its catalog colors.
func Bitmap(id engine.TileID) ([]byte, error) {
	packed, err := Pack(id)
	if err != nil {
		return nil, err
	}
	return Render(packed, glyphs[id].fg, display.WallBG)
}

package display

import (
	"context"
	"image"
)

// Tee forwards every call to all of its displays, in order. The first error
// stops the fan-out.
type Tee []Display

func (t Tee) Clear(ctx context.Context, c Color) error {
	for _, d := range t {
		if err := d.Clear(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) DrawTile(ctx context.Context, origin image.Point, bitmap []byte) error {
	for _, d := range t {
		if err := d.DrawTile(ctx, origin, bitmap); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) DrawSolidArea(ctx context.Context, area image.Rectangle, c Color) error {
	for _, d := range t {
		if err := d.DrawSolidArea(ctx, area, c); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) DrawText(ctx context.Context, text string, origin image.Point, fg Color, bg *Color) error {
	for _, d := range t {
		if err := d.DrawText(ctx, text, origin, fg, bg); err != nil {
			return err
		}
	}
	return nil
}

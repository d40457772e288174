package state

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/levels"
)

// ErrUnknownSprite is returned when a redraw needs a sprite the level did not
// load during OnInit.
var ErrUnknownSprite = errors.New("unknown sprite")

// Level plays one board. It resolves every event through its grid and paints
// the resulting redraw batch.
type Level struct {
	levels  *levels.Registry
	id      string
	grid    *engine.Grid
	sprites []engine.TileID
	tiles   map[engine.TileID][]byte
	blocked bool
}

// NewLevel builds a fresh board of level id.
func NewLevel(reg *levels.Registry, id string) (*Level, error) {
	grid, sprites, err := reg.Build(id)
	if err != nil {
		return nil, err
	}
	return &Level{levels: reg, id: id, grid: grid, sprites: sprites}, nil
}

// LevelFromGrid resumes level id on the items of grid, which is left empty.
func LevelFromGrid(reg *levels.Registry, id string, grid *engine.Grid) (*Level, error) {
	sprites, err := reg.Sprites(id)
	if err != nil {
		return nil, err
	}
	return &Level{levels: reg, id: id, grid: engine.Transplant(grid), sprites: sprites}, nil
}

func (l *Level) Name() string { return "level:" + l.id }

// ID returns the level id.
func (l *Level) ID() string { return l.id }

// Grid returns the live board.
func (l *Level) Grid() *engine.Grid { return l.grid }

// Blocked reports whether button input is ignored while an animation runs.
func (l *Level) Blocked() bool { return l.blocked }

func (l *Level) OnInit(ctx context.Context, d display.Display, a assets.Store) error {
	log.Printf("level %s: init, %d sprites", l.id, len(l.sprites))
	if err := d.Clear(ctx, display.WallBG); err != nil {
		return err
	}

	l.tiles = make(map[engine.TileID][]byte, len(l.sprites))
	for _, id := range l.sprites {
		offset, length := assets.Locate(id)
		bitmap, err := a.Load(ctx, offset, length)
		if err != nil {
			return fmt.Errorf("load sprite %d: %w", id, err)
		}
		l.tiles[id] = bitmap
	}

	return l.redrawAll(ctx, d)
}

func (l *Level) OnEvent(ctx context.Context, ev engine.Event, d display.Display) (State, error) {
	if ev.Kind == engine.EventButton {
		if l.blocked {
			return nil, nil
		}
		if ev.Pressed(engine.ButtonReset) {
			return NewSpellScreen(l.levels, l.id, engine.Transplant(l.grid)), nil
		}
	}

	out := l.grid.Resolve(ev)
	switch out.Block {
	case engine.BlockOn:
		l.blocked = true
	case engine.BlockOff:
		l.blocked = false
	}

	for _, r := range out.Redraw.Requests() {
		if err := l.draw(ctx, d, r); err != nil {
			return nil, err
		}
	}

	if out.Win {
		log.Printf("level %s: won", l.id)
		l.tiles = nil
		next, err := NewLevel(l.levels, l.id)
		if err != nil {
			return nil, err
		}
		return next, nil
	}
	return nil, nil
}

func (l *Level) draw(ctx context.Context, d display.Display, r engine.RedrawRequest) error {
	origin := image.Pt(r.Target.X*engine.TileSize+r.Shift.X, r.Target.Y*engine.TileSize+r.Shift.Y)
	cell := l.grid.Cell(r.Target.X, r.Target.Y)
	if cell.IsEmpty() {
		area := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(engine.TileSize, engine.TileSize))}
		return d.DrawSolidArea(ctx, area, display.WallBG)
	}

	id := cell.TileID()
	bitmap, ok := l.tiles[id]
	if !ok {
		return fmt.Errorf("%w: %d at (%d,%d)", ErrUnknownSprite, id, r.Target.X, r.Target.Y)
	}
	return d.DrawTile(ctx, origin, bitmap)
}

func (l *Level) redrawAll(ctx context.Context, d display.Display) error {
	for x := 0; x < engine.MaxX; x++ {
		for y := 0; y < engine.MaxY; y++ {
			if err := l.draw(ctx, d, engine.RedrawRequest{Target: engine.NewTarget(x, y, 0)}); err != nil {
				return err
			}
		}
	}
	return nil
}

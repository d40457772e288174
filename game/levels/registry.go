// Package levels turns level definitions into playable boards.
package levels

import (
	"fmt"
	"sort"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/items"
	"github.com/exor2008/koldun/game/tiles"
)

// Source provides level definitions. *config.Manager implements it.
type Source interface {
	LoadLevel(id string) (*config.LevelConfig, error)
	GetDefault() *config.LevelConfig
}

// Registry builds boards by level id.
type Registry struct {
	source Source
}

// NewRegistry creates a registry over source.
func NewRegistry(source Source) *Registry {
	return &Registry{source: source}
}

// Default returns the id of the default level.
func (r *Registry) Default() string {
	if cfg := r.source.GetDefault(); cfg != nil {
		return cfg.ID
	}
	return config.DefaultLevel
}

// Build returns the initial board of level id and the sprites it can show.
func (r *Registry) Build(id string) (*engine.Grid, []engine.TileID, error) {
	cfg, err := r.source.LoadLevel(id)
	if err != nil {
		return nil, nil, fmt.Errorf("load level %s: %w", id, err)
	}
	grid, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	sprites, err := Sprites(cfg)
	if err != nil {
		return nil, nil, err
	}
	return grid, sprites, nil
}

// Sprites returns the sprite table of level id.
func (r *Registry) Sprites(id string) ([]engine.TileID, error) {
	cfg, err := r.source.LoadLevel(id)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", id, err)
	}
	return Sprites(cfg)
}

// Build places the layout, the wizard and the exit of cfg on a new board.
// The exit replaces the background of its cell.
func Build(cfg *config.LevelConfig) (*engine.Grid, error) {
	layout, err := cfg.Tiles()
	if err != nil {
		return nil, fmt.Errorf("build level %s: %w", cfg.ID, err)
	}

	grid := engine.NewGrid()
	for y := 0; y < engine.MaxY; y++ {
		for x := 0; x < engine.MaxX; x++ {
			id := layout[y][x]
			z := tiles.Layer(id)
			if z == 0 && x == cfg.Exit.X && y == cfg.Exit.Y {
				continue
			}
			if z != 0 {
				// Walls stand on plain floor.
				grid.Place(items.NewSprite(engine.NewTarget(x, y, 0), tiles.Empty))
			}
			grid.Place(items.NewSprite(engine.NewTarget(x, y, z), id))
		}
	}

	grid.Place(items.NewWizard(engine.NewTarget(cfg.Wizard.X, cfg.Wizard.Y, 1)))
	grid.Place(items.NewExit(engine.NewTarget(cfg.Exit.X, cfg.Exit.Y, 0), tiles.ExitOpen))
	return grid, nil
}

// Sprites lists every sprite a board built from cfg may display: its layout,
// the wizard frames, the exit and a cast spell.
func Sprites(cfg *config.LevelConfig) ([]engine.TileID, error) {
	layout, err := cfg.Tiles()
	if err != nil {
		return nil, fmt.Errorf("sprites of level %s: %w", cfg.ID, err)
	}
	set := map[engine.TileID]bool{
		tiles.Empty:    true,
		tiles.ExitOpen: true,
		tiles.Spell:    true,
	}
	for _, id := range tiles.WizardFrames() {
		set[id] = true
	}
	for y := range layout {
		for _, id := range layout[y] {
			set[id] = true
		}
	}

	out := make([]engine.TileID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

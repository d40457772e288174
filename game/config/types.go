package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exor2008/koldun/game/engine"
)

// Point is a cell coordinate in a level file.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// LevelConfig describes a level: its layout of sprite ids and where the
// wizard and the exit start.
type LevelConfig struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Layout      []string `yaml:"layout" json:"layout"`
	Wizard      Point    `yaml:"wizard" json:"wizard"`
	Exit        Point    `yaml:"exit" json:"exit"`
}

// LevelInfo summarizes a level for listings.
type LevelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"` // "builtin" or "file"
}

// Tiles parses the layout into sprite ids indexed [y][x].
func (c *LevelConfig) Tiles() ([engine.MaxY][engine.MaxX]engine.TileID, error) {
	var out [engine.MaxY][engine.MaxX]engine.TileID
	if len(c.Layout) != engine.MaxY {
		return out, fmt.Errorf("layout must have %d rows, got %d", engine.MaxY, len(c.Layout))
	}
	for y, row := range c.Layout {
		fields := strings.Fields(row)
		if len(fields) != engine.MaxX {
			return out, fmt.Errorf("row %d must have %d tiles, got %d", y, engine.MaxX, len(fields))
		}
		for x, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return out, fmt.Errorf("row %d, col %d: invalid tile %q", y, x, f)
			}
			out[y][x] = engine.TileID(id)
		}
	}
	return out, nil
}

package config

import (
	"fmt"
	"regexp"

	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/tiles"
)

var levelIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidateLevel checks a level for correctness and winnability.
func ValidateLevel(cfg *LevelConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("level validation: id is required")
	}
	if !levelIDPattern.MatchString(cfg.ID) {
		return fmt.Errorf("level validation: id %q must match %s", cfg.ID, levelIDPattern)
	}
	if cfg.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}

	layout, err := cfg.Tiles()
	if err != nil {
		return fmt.Errorf("level validation: %w", err)
	}
	for y := range layout {
		for x, id := range layout[y] {
			if !tiles.Known(id) {
				return fmt.Errorf("level validation: unknown tile %d at (%d,%d)", id, x, y)
			}
		}
	}

	if !inBounds(cfg.Wizard) {
		return fmt.Errorf("level validation: wizard (%d,%d) is off the board", cfg.Wizard.X, cfg.Wizard.Y)
	}
	if !inBounds(cfg.Exit) {
		return fmt.Errorf("level validation: exit (%d,%d) is off the board", cfg.Exit.X, cfg.Exit.Y)
	}
	if cfg.Wizard == cfg.Exit {
		return fmt.Errorf("level validation: wizard and exit share (%d,%d)", cfg.Exit.X, cfg.Exit.Y)
	}
	if tiles.Layer(layout[cfg.Wizard.Y][cfg.Wizard.X]) != 0 {
		return fmt.Errorf("level validation: wizard (%d,%d) stands on a wall", cfg.Wizard.X, cfg.Wizard.Y)
	}
	if tiles.Layer(layout[cfg.Exit.Y][cfg.Exit.X]) != 0 {
		return fmt.Errorf("level validation: exit (%d,%d) is covered by a wall", cfg.Exit.X, cfg.Exit.Y)
	}

	staging := engine.Staging
	if tiles.Layer(layout[staging.Y][staging.X]) == 0 {
		return fmt.Errorf("level validation: staging cell (%d,%d) must hold a wall", staging.X, staging.Y)
	}

	if _, ok := ShortestPath(layout, cfg.Wizard, cfg.Exit); !ok {
		return fmt.Errorf("level validation: exit (%d,%d) is unreachable from wizard (%d,%d)",
			cfg.Exit.X, cfg.Exit.Y, cfg.Wizard.X, cfg.Wizard.Y)
	}
	return nil
}

// ShortestPath returns the number of steps between two cells walking only
// over cells without a foreground tile.
func ShortestPath(layout [engine.MaxY][engine.MaxX]engine.TileID, from, to Point) (int, bool) {
	route, ok := Route(layout, from, to)
	return len(route), ok
}

// Route returns the moves of a shortest walk from one cell to another over
// cells without a foreground tile.
func Route(layout [engine.MaxY][engine.MaxX]engine.TileID, from, to Point) ([]engine.Direction, bool) {
	type step struct {
		prev Point
		dir  engine.Direction
		seen bool
	}
	var steps [engine.MaxY][engine.MaxX]step

	queue := []Point{from}
	steps[from.Y][from.X].seen = true
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			var route []engine.Direction
			for p != from {
				s := steps[p.Y][p.X]
				route = append(route, s.dir)
				p = s.prev
			}
			for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
				route[i], route[j] = route[j], route[i]
			}
			return route, true
		}
		for _, d := range engine.Directions {
			dx, dy := d.Delta()
			n := Point{X: p.X + dx, Y: p.Y + dy}
			if !inBounds(n) || steps[n.Y][n.X].seen || tiles.Layer(layout[n.Y][n.X]) != 0 {
				continue
			}
			steps[n.Y][n.X] = step{prev: p, dir: d, seen: true}
			queue = append(queue, n)
		}
	}
	return nil, false
}

func inBounds(p Point) bool {
	return p.X >= 0 && p.X < engine.MaxX && p.Y >= 0 && p.Y < engine.MaxY
}

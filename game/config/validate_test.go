package config

import (
	"strings"
	"testing"
)

func TestValidateLevel(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *LevelConfig)
		wantErr string
	}{
		{"valid", func(cfg *LevelConfig) {}, ""},
		{"missing id", func(cfg *LevelConfig) { cfg.ID = "" }, "id is required"},
		{"bad id", func(cfg *LevelConfig) { cfg.ID = "Level One" }, "must match"},
		{"missing name", func(cfg *LevelConfig) { cfg.Name = "" }, "name is required"},
		{"short layout", func(cfg *LevelConfig) { cfg.Layout = cfg.Layout[:9] }, "rows"},
		{"short row", func(cfg *LevelConfig) { cfg.Layout[3] = "50 0 0" }, "tiles"},
		{"not a number", func(cfg *LevelConfig) { cfg.Layout[3] = strings.Replace(cfg.Layout[3], "0", "x", 1) }, "invalid tile"},
		{"unknown tile", func(cfg *LevelConfig) { cfg.Layout[3] = strings.Replace(cfg.Layout[3], " 0 ", " 1 ", 1) }, "unknown tile"},
		{"wizard off board", func(cfg *LevelConfig) { cfg.Wizard = Point{X: 15, Y: 2} }, "wizard"},
		{"exit off board", func(cfg *LevelConfig) { cfg.Exit = Point{X: 3, Y: -1} }, "exit"},
		{"same cell", func(cfg *LevelConfig) { cfg.Exit = cfg.Wizard }, "share"},
		{"wizard in wall", func(cfg *LevelConfig) { cfg.Wizard = Point{X: 0, Y: 4} }, "stands on a wall"},
		{"exit in wall", func(cfg *LevelConfig) { cfg.Exit = Point{X: 14, Y: 4} }, "covered by a wall"},
		{"open staging", func(cfg *LevelConfig) { cfg.Layout[0] = "0" + cfg.Layout[0][2:] }, "staging"},
		{"unreachable exit", func(cfg *LevelConfig) {
			cfg.Layout[5] = "50 50 50 50 50 50 50 50 50 50 50 50 50 50 50"
		}, "unreachable"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := createValidLevel("test")
			test.mutate(cfg)
			err := ValidateLevel(cfg)
			if test.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Expected error containing %q, got %v", test.wantErr, err)
			}
		})
	}
}

func TestShortestPath(t *testing.T) {
	cfg := createValidLevel("path")
	layout, err := cfg.Tiles()
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}

	steps, ok := ShortestPath(layout, cfg.Wizard, cfg.Exit)
	if !ok {
		t.Fatal("Expected a path")
	}
	if steps != 15 {
		t.Errorf("Expected 15 steps, got %d", steps)
	}
}

func TestBuiltinLevelsAreValid(t *testing.T) {
	for _, id := range []string{"level1", "level2"} {
		t.Run(id, func(t *testing.T) {
			data, err := builtin.ReadFile("levels/" + id + ".yaml")
			if err != nil {
				t.Fatalf("Failed to read %s: %v", id, err)
			}
			cfg, err := Parse(data)
			if err != nil {
				t.Fatalf("Built-in level invalid: %v", err)
			}
			if cfg.ID != id {
				t.Errorf("Expected id %s, got %s", id, cfg.ID)
			}
		})
	}
}

func TestRouteLevel1(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	cfg, err := m.LoadLevel("level1")
	if err != nil {
		t.Fatalf("Failed to load level1: %v", err)
	}
	layout, err := cfg.Tiles()
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}

	route, ok := Route(layout, cfg.Wizard, cfg.Exit)
	if !ok {
		t.Fatal("Expected a route")
	}
	if len(route) != 2 || route[0].String() != "down" || route[1].String() != "down" {
		t.Errorf("Expected [down down], got %v", route)
	}

	if _, ok := Route(layout, cfg.Wizard, Point{X: 0, Y: 0}); ok {
		t.Error("Expected no route into a wall")
	}
}

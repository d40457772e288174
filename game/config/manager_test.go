package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"
)

func createValidLevel(id string) *LevelConfig {
	return &LevelConfig{
		ID:          id,
		Name:        "Test " + id,
		Description: "Test level",
		Layout: []string{
			"50 50 50 50 50 50 50 50 50 50 50 50 50 50 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 0 0 0 0 0 0 0 0 0 0 0 0 0 50",
			"50 50 50 50 50 50 50 50 50 50 50 50 50 50 50",
		},
		Wizard: Point{X: 2, Y: 2},
		Exit:   Point{X: 12, Y: 7},
	}
}

func writeLevelFile(t *testing.T, dir string, cfg *LevelConfig) {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.ID+".yaml"), data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("builtin only", func(t *testing.T) {
		manager, err := NewManager("")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault() == nil || manager.GetDefault().ID != DefaultLevel {
			t.Errorf("Expected default level %s, got %+v", DefaultLevel, manager.GetDefault())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to builtin", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault() == nil {
			t.Error("Expected default level to be available")
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel("custom"))

	override := createValidLevel("level2")
	override.Name = "Overridden"
	writeLevelFile(t, dir, override)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load builtin level", func(t *testing.T) {
		cfg, err := manager.LoadLevel("level1")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if cfg.Wizard != (Point{X: 10, Y: 5}) || cfg.Exit != (Point{X: 10, Y: 7}) {
			t.Errorf("Unexpected placements: wizard %+v exit %+v", cfg.Wizard, cfg.Exit)
		}
	})

	t.Run("load file level", func(t *testing.T) {
		cfg, err := manager.LoadLevel("custom")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if cfg.Name != "Test custom" {
			t.Errorf("Expected name 'Test custom', got '%s'", cfg.Name)
		}
	})

	t.Run("load with .yaml extension", func(t *testing.T) {
		if _, err := manager.LoadLevel("custom.yaml"); err != nil {
			t.Fatalf("Failed to load level with extension: %v", err)
		}
	})

	t.Run("file overrides builtin", func(t *testing.T) {
		cfg, err := manager.LoadLevel("level2")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if cfg.Name != "Overridden" {
			t.Errorf("Expected overridden level, got '%s'", cfg.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		cfg1, _ := manager.LoadLevel("custom")
		cfg2, err := manager.LoadLevel("custom")
		if err != nil {
			t.Fatalf("Failed to load level from cache: %v", err)
		}
		if cfg1 != cfg2 {
			t.Error("Expected level to be loaded from cache")
		}
	})

	t.Run("load non-existent level", func(t *testing.T) {
		_, err := manager.LoadLevel("non-existent")
		if err != ErrLevelNotFound {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("load invalid level", func(t *testing.T) {
		bad := createValidLevel("broken")
		bad.Exit = Point{X: 0, Y: 0}
		writeLevelFile(t, dir, bad)

		_, err := manager.LoadLevel("broken")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("load malformed YAML", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.yaml"), []byte("id: [oops"), 0644); err != nil {
			t.Fatalf("Failed to write malformed level: %v", err)
		}
		if _, err := manager.LoadLevel("malformed"); err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})

	t.Run("id mismatch", func(t *testing.T) {
		cfg := createValidLevel("inner")
		data, _ := yaml.Marshal(cfg)
		if err := os.WriteFile(filepath.Join(dir, "outer.yaml"), data, 0644); err != nil {
			t.Fatalf("Failed to write level: %v", err)
		}
		if _, err := manager.LoadLevel("outer"); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestManager_ListLevels(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, createValidLevel("arena"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	bad := createValidLevel("zz-bad")
	bad.Layout = bad.Layout[:3]
	writeLevelFile(t, dir, bad)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}

	expected := []struct {
		id     string
		source string
	}{
		{"arena", "file"},
		{"level1", "builtin"},
		{"level2", "builtin"},
	}
	if len(levels) != len(expected) {
		t.Fatalf("Expected %d levels, got %d", len(expected), len(levels))
	}
	for i, want := range expected {
		if levels[i].ID != want.id || levels[i].Source != want.source {
			t.Errorf("level %d: expected %s/%s, got %s/%s", i, want.id, want.source, levels[i].ID, levels[i].Source)
		}
	}
}

func TestManager_SaveLevel(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	cfg := createValidLevel("saved")
	if err := manager.SaveLevel(cfg); err != nil {
		t.Fatalf("Failed to save level: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.yaml")); err != nil {
		t.Errorf("Expected level file on disk: %v", err)
	}

	manager.RefreshCache()
	loaded, err := manager.LoadLevel("saved")
	if err != nil {
		t.Fatalf("Failed to reload saved level: %v", err)
	}
	if loaded.Exit != cfg.Exit {
		t.Errorf("Expected exit %+v, got %+v", cfg.Exit, loaded.Exit)
	}

	invalid := createValidLevel("invalid")
	invalid.Name = ""
	if err := manager.SaveLevel(invalid); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}

	readOnly, _ := NewManager("")
	if err := readOnly.SaveLevel(cfg); err != ErrReadOnly {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	manager, err := NewManager("")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SetDefault("level2"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().ID != "level2" {
		t.Errorf("Expected default level2, got %s", manager.GetDefault().ID)
	}
	if err := manager.SetDefault("missing"); err == nil {
		t.Error("Expected error for missing level")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager, err := NewManager("")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "level1"
			if i%2 == 0 {
				id = "level2"
			}
			if _, err := manager.LoadLevel(id); err != nil {
				t.Errorf("Failed to load %s: %v", id, err)
			}
			manager.GetDefault()
		}(i)
	}
	wg.Wait()
}

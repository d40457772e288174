package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
	ErrReadOnly      = errors.New("no level directory configured")
)

// DefaultLevel is the level a new game starts on.
const DefaultLevel = "level1"

//go:embed levels/*.yaml
var builtin embed.FS

// Manager loads levels from the built-in set and an optional directory of
// YAML files. Files in the directory take precedence over built-in levels
// with the same id.
type Manager struct {
	levelDir     string
	defaultLevel *LevelConfig
	levels       map[string]*LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a manager. An empty levelDir serves built-in levels only.
func NewManager(levelDir string) (*Manager, error) {
	if levelDir != "" {
		if _, err := os.Stat(levelDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
		}
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by id
func (m *Manager) LoadLevel(id string) (*LevelConfig, error) {
	id = strings.TrimSuffix(id, ".yaml")

	m.mu.RLock()
	if cfg, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.levels[id]; exists {
		return cfg, nil
	}

	data, _, err := m.read(id)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.ID != id {
		return nil, fmt.Errorf("%w: file %s declares id %q", ErrInvalidLevel, id, cfg.ID)
	}

	m.levels[id] = cfg
	return cfg, nil
}

// Parse decodes and validates a level file.
func Parse(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	if err := ValidateLevel(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return &cfg, nil
}

// read returns the raw file of id and where it came from.
func (m *Manager) read(id string) ([]byte, string, error) {
	filename := id + ".yaml"
	if m.levelDir != "" {
		data, err := os.ReadFile(filepath.Join(m.levelDir, filename))
		if err == nil {
			return data, "file", nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("failed to read level file: %w", err)
		}
	}

	data, err := builtin.ReadFile("levels/" + filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrLevelNotFound
		}
		return nil, "", fmt.Errorf("failed to read built-in level: %w", err)
	}
	return data, "builtin", nil
}

// ListLevels returns every loadable level, sorted by id. Invalid files are skipped.
func (m *Manager) ListLevels() ([]*LevelInfo, error) {
	ids := map[string]bool{}

	entries, err := builtin.ReadDir("levels")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in levels: %w", err)
	}
	for _, entry := range entries {
		ids[strings.TrimSuffix(entry.Name(), ".yaml")] = true
	}

	if m.levelDir != "" {
		entries, err := os.ReadDir(m.levelDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read level directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			ids[strings.TrimSuffix(entry.Name(), ".yaml")] = true
		}
	}

	var levels []*LevelInfo
	for id := range ids {
		cfg, err := m.LoadLevel(id)
		if err != nil {
			continue
		}
		_, source, err := m.read(id)
		if err != nil {
			continue
		}
		levels = append(levels, &LevelInfo{
			ID:          cfg.ID,
			Name:        cfg.Name,
			Description: cfg.Description,
			Source:      source,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by id
func (m *Manager) SetDefault(id string) error {
	cfg, err := m.LoadLevel(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = cfg
	return nil
}

// RefreshCache drops cached levels so edited files are picked up.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

func (m *Manager) loadDefaultLevel() error {
	cfg, err := m.LoadLevel(DefaultLevel)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultLevel = cfg
	m.mu.Unlock()
	return nil
}

// SaveLevel validates cfg and writes it to the level directory.
func (m *Manager) SaveLevel(cfg *LevelConfig) error {
	if m.levelDir == "" {
		return ErrReadOnly
	}
	if err := ValidateLevel(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	path := filepath.Join(m.levelDir, cfg.ID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[cfg.ID] = cfg
	m.mu.Unlock()

	return nil
}

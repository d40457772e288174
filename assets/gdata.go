package assets

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

const (
	atlasObject   = "assets"
	atlasProperty = "atlas"
)

// GdataStore keeps the atlas in the per-user application data directory, the
// desktop counterpart of the flash chip the tiles originally lived on. The blob
// is read once and served from memory.
type GdataStore struct {
	manager *gdata.Manager
	mem     *MemStore
}

// OpenGdata opens the data store of appName.
func OpenGdata(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &GdataStore{manager: m}, nil
}

// Installed reports whether an atlas was saved.
func (s *GdataStore) Installed() bool {
	return s.manager.ObjectPropExists(atlasObject, atlasProperty)
}

// Install saves blob as the atlas.
func (s *GdataStore) Install(blob []byte) error {
	if err := s.manager.SaveObjectProp(atlasObject, atlasProperty, blob); err != nil {
		return fmt.Errorf("install atlas: %w", err)
	}
	s.mem = NewMemStore(blob)
	return nil
}

func (s *GdataStore) Load(ctx context.Context, offset, length int) ([]byte, error) {
	if s.mem == nil {
		if !s.Installed() {
			return nil, ErrNotInstalled
		}
		blob, err := s.manager.LoadObjectProp(atlasObject, atlasProperty)
		if err != nil {
			return nil, fmt.Errorf("load atlas: %w", err)
		}
		s.mem = NewMemStore(blob)
	}
	return s.mem.Load(ctx, offset, length)
}

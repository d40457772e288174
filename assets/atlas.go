package assets

import (
	"fmt"
	"os"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/tiles"
)

// Locate returns where the bitmap of id lives in the atlas. Tiles are stored
// at a fixed stride so the table needs no index.
func Locate(id engine.TileID) (offset, length int) {
	return int(id) * display.TileBytes, display.TileBytes
}

// BuildAtlas renders every catalog tile into one blob laid out for Locate.
// Slots of unused ids are left zeroed.
func BuildAtlas() ([]byte, error) {
	blob := make([]byte, int(tiles.MaxID)*display.TileBytes)
	for _, id := range tiles.All() {
		bitmap, err := tiles.Bitmap(id)
		if err != nil {
			return nil, fmt.Errorf("build atlas: %w", err)
		}
		offset, _ := Locate(id)
		copy(blob[offset:], bitmap)
	}
	return blob, nil
}

// Builtin returns an in-memory store holding a freshly built atlas.
func Builtin() (*MemStore, error) {
	blob, err := BuildAtlas()
	if err != nil {
		return nil, err
	}
	return NewMemStore(blob), nil
}

// WriteAtlas builds the atlas and writes it to path.
func WriteAtlas(path string) error {
	blob, err := BuildAtlas()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("write atlas: %w", err)
	}
	return nil
}

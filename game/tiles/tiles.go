// Package tiles is the sprite catalog: tile identifiers, their depth layer and
// the 1-bit glyphs they are rendered from.
//
// A tile id is sheet*SheetSize + index. Sheet 0 holds background tiles that
// live on layer 0; every other sheet is foreground.
package tiles

import (
	"sort"

	"github.com/exor2008/koldun/game/engine"
)

// SheetSize is the number of tiles per sheet.
const SheetSize = 32

// Background sheet.
const (
	Empty      engine.TileID = 0
	Ground1    engine.TileID = 2
	Ground2    engine.TileID = 3
	Debris1    engine.TileID = 4
	Debris2    engine.TileID = 5
	Grass1     engine.TileID = 6
	Grass2     engine.TileID = 7
	ExitOpen   engine.TileID = 8
	ExitClosed engine.TileID = 9
)

// Terrain sheet.
const (
	Stone1     engine.TileID = 36
	Stone2     engine.TileID = 37
	Stone3     engine.TileID = 38
	Tree       engine.TileID = 41
	Trees      engine.TileID = 42
	Bush       engine.TileID = 43
	BrickWall1 engine.TileID = 50
	BrickWall2 engine.TileID = 51
	BrickWall3 engine.TileID = 52
)

// Actor sheet.
const (
	WizardIdle1  engine.TileID = 64
	WizardIdle2  engine.TileID = 65
	WizardUp1    engine.TileID = 66
	WizardUp2    engine.TileID = 67
	WizardDown1  engine.TileID = 68
	WizardDown2  engine.TileID = 69
	WizardLeft1  engine.TileID = 70
	WizardLeft2  engine.TileID = 71
	WizardRight1 engine.TileID = 72
	WizardRight2 engine.TileID = 73
	Spell        engine.TileID = 80
)

// MaxID bounds every id in the catalog.
const MaxID engine.TileID = 3 * SheetSize

// Layer returns the depth a layout tile is placed on.
func Layer(id engine.TileID) int {
	if id < SheetSize {
		return 0
	}
	return 1
}

// Known reports whether id has a glyph.
func Known(id engine.TileID) bool {
	_, ok := glyphs[id]
	return ok
}

// All returns every catalog id in ascending order.
func All() []engine.TileID {
	ids := make([]engine.TileID, 0, len(glyphs))
	for id := range glyphs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Name returns a readable name for id.
func Name(id engine.TileID) string {
	if g, ok := glyphs[id]; ok {
		return g.name
	}
	return "unknown"
}

// WizardFrames returns the sprites a wizard cycles through.
func WizardFrames() []engine.TileID {
	return []engine.TileID{
		WizardIdle1, WizardIdle2,
		WizardUp1, WizardUp2,
		WizardDown1, WizardDown2,
		WizardLeft1, WizardLeft2,
		WizardRight1, WizardRight2,
	}
}

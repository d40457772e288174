package engine

const (
	// Board dimensions in cells.
	MaxX = 15
	MaxY = 10

	// Layers is the number of depth slots per cell. Layer 0 is background.
	Layers = 2

	// Fixed capacities of the resolver's intermediate collections.
	MaxActionsPerItem = 3
	MaxEvents         = 128
	MaxRedraw         = 32

	// TileSize is the edge of a square tile in pixels.
	TileSize = 32
)

// Staging is the hidden slot holding a Spell before it is cast.
var Staging = Target{X: 0, Y: 0, Z: 0}

// TileID identifies a sprite bitmap.
type TileID int

// Target addresses a single slot of the grid.
type Target struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NewTarget creates a target from its coordinates.
func NewTarget(x, y, z int) Target {
	return Target{X: x, Y: y, Z: z}
}

// InBounds reports whether the target addresses an existing slot.
func (t Target) InBounds() bool {
	return t.X >= 0 && t.X < MaxX && t.Y >= 0 && t.Y < MaxY && t.Z >= 0 && t.Z < Layers
}

// Step returns the target one cell away in the given direction, on the same layer.
func (t Target) Step(d Direction) Target {
	dx, dy := d.Delta()
	return Target{X: t.X + dx, Y: t.Y + dy, Z: t.Z}
}

// SameCell reports whether both targets share x and y.
func (t Target) SameCell(o Target) bool {
	return t.X == o.X && t.Y == o.Y
}

// Pos is a pixel offset.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction of a move or a cast.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// Delta returns the cell offset of one step. Up decrements y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// ParseDirection converts "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

// Kind tags the variant of an item.
type Kind uint8

const (
	KindSprite Kind = iota
	KindWizard
	KindExit
	KindSpell
)

func (k Kind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindWizard:
		return "wizard"
	case KindExit:
		return "exit"
	case KindSpell:
		return "spell"
	}
	return "unknown"
}

package engine

import "fmt"

// Snapshot returns the topmost sprite of every cell, indexed [y][x].
func (g *Grid) Snapshot() [MaxY][MaxX]TileID {
	var out [MaxY][MaxX]TileID
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			out[y][x] = g.cells[y][x].TileID()
		}
	}
	return out
}

// Check verifies that every item reports the slot it is stored in.
func (g *Grid) Check() error {
	for x := 0; x < MaxX; x++ {
		for y := 0; y < MaxY; y++ {
			for z := 0; z < Layers; z++ {
				item := g.cells[y][x].items[z]
				if item == nil {
					continue
				}
				if t := item.Target(); t != (Target{X: x, Y: y, Z: z}) {
					return fmt.Errorf("grid check: %s stored at (%d,%d,%d) reports %v", item.Kind(), x, y, z, t)
				}
			}
		}
	}
	return nil
}

// ManhattanDistance returns the number of single steps between two cells.
func ManhattanDistance(from, to Target) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

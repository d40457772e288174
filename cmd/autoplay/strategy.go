package main

import (
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/service"
)

// Position is a cell of the board map.
type Position struct {
	X int
	Y int
}

func targetPos(t *engine.Target) (Position, bool) {
	if t == nil {
		return Position{}, false
	}
	return Position{X: t.X, Y: t.Y}, true
}

// passable reports whether the wizard can walk onto the cell of a board map.
// Spells and obstacles block, the exit does not.
func passable(rows []string, p Position) bool {
	if p.Y < 0 || p.Y >= len(rows) || p.X < 0 || p.X >= len(rows[p.Y]) {
		return false
	}
	switch rows[p.Y][p.X] {
	case '#', '*':
		return false
	}
	return true
}

// Plan returns the buttons of a shortest walk from the wizard to the exit on
// the board map, or nil when there is none.
func Plan(board *service.BoardView) []string {
	start, ok := targetPos(board.Wizard)
	if !ok {
		return nil
	}
	goal, ok := targetPos(board.Exit)
	if !ok {
		return nil
	}
	return BFS(board.Rows, start, goal)
}

// BFS finds a shortest path between two cells and returns it as button names.
func BFS(rows []string, start, goal Position) []string {
	if start == goal {
		return []string{}
	}

	type node struct {
		pos  Position
		path []string
	}
	visited := map[Position]bool{start: true}
	queue := []node{{pos: start}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range engine.Directions {
			dx, dy := d.Delta()
			next := Position{X: current.pos.X + dx, Y: current.pos.Y + dy}
			if visited[next] || !passable(rows, next) {
				continue
			}
			path := append(append([]string(nil), current.path...), d.String())
			if next == goal {
				return path
			}
			visited[next] = true
			queue = append(queue, node{pos: next, path: path})
		}
	}
	return nil
}

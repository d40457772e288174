// Command analyze prints quick, human-readable facts about levels: the
// placement of the wizard and the exit, the shortest walk between them and
// how much of the board the wizard can reach at all.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/tiles"
)

func main() {
	dir := ""
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	manager, err := config.NewManager(dir)
	if err != nil {
		fmt.Printf("Error opening levels: %v\n", err)
		os.Exit(1)
	}
	levels, err := manager.ListLevels()
	if err != nil {
		fmt.Printf("Error listing levels: %v\n", err)
		os.Exit(1)
	}

	for _, info := range levels {
		fmt.Printf("\n=== Analyzing %s (%s) ===\n", info.ID, info.Source)
		cfg, err := manager.LoadLevel(info.ID)
		if err != nil {
			fmt.Printf("Error loading level: %v\n", err)
			continue
		}
		analyzeLevel(os.Stdout, cfg)
	}
}

func analyzeLevel(w io.Writer, cfg *config.LevelConfig) {
	layout, err := cfg.Tiles()
	if err != nil {
		fmt.Fprintf(w, "Error parsing layout: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Wizard: (%d, %d)\n", cfg.Wizard.X, cfg.Wizard.Y)
	fmt.Fprintf(w, "Exit: (%d, %d)\n", cfg.Exit.X, cfg.Exit.Y)

	census := map[string]int{}
	for y := range layout {
		for _, id := range layout[y] {
			if tiles.Layer(id) > 0 {
				census[tiles.Name(id)]++
			}
		}
	}
	names := make([]string, 0, len(census))
	for name := range census {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "Obstacle %s: %d\n", name, census[name])
	}

	reachable := reachableCells(layout, cfg.Wizard)
	fmt.Fprintf(w, "Reachable cells: %d of %d\n", reachable, engine.MaxX*engine.MaxY)

	distance := engine.ManhattanDistance(
		engine.NewTarget(cfg.Wizard.X, cfg.Wizard.Y, 1),
		engine.NewTarget(cfg.Exit.X, cfg.Exit.Y, 1),
	)
	route, ok := config.Route(layout, cfg.Wizard, cfg.Exit)
	if !ok {
		fmt.Fprintf(w, "⚠️  CRITICAL: the exit is unreachable (straight distance %d)\n", distance)
		return
	}
	fmt.Fprintf(w, "✅ Shortest walk: %d steps (straight distance %d, detour %d)\n",
		len(route), distance, len(route)-distance)
	fmt.Fprintf(w, "   Route: %s\n", formatRoute(route))
}

// reachableCells counts the cells the wizard can walk to from start,
// including start itself.
func reachableCells(layout [engine.MaxY][engine.MaxX]engine.TileID, start config.Point) int {
	count := 0
	for y := 0; y < engine.MaxY; y++ {
		for x := 0; x < engine.MaxX; x++ {
			p := config.Point{X: x, Y: y}
			if p == start {
				count++
				continue
			}
			if _, ok := config.Route(layout, start, p); ok {
				count++
			}
		}
	}
	return count
}

func formatRoute(route []engine.Direction) string {
	parts := make([]string, len(route))
	for i, d := range route {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

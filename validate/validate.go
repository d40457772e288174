// Command validate checks level YAML files. It reports:
//   - YAML structure and required fields
//   - Layout dimensions and known sprite ids
//   - Wizard and exit placement, and the covered staging cell
//   - That the file name matches the level id
//   - Reachability: the exit can be walked to from the wizard
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/tiles"
)

// defaultDir holds the built-in levels, relative to the repository root.
const defaultDir = "game/config/levels"

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateLevel loads and validates a single level file.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var cfg config.LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		result.fail("Invalid YAML: %v", err)
		return result
	}

	if want := strings.TrimSuffix(result.File, filepath.Ext(result.File)); cfg.ID != "" && cfg.ID != want {
		result.fail("Level id %q does not match file name %q", cfg.ID, want)
	}
	if err := config.ValidateLevel(&cfg); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "level validation: "))
	}
	if !result.Valid {
		return result
	}

	layout, _ := cfg.Tiles()
	walls := 0
	for y := range layout {
		for _, id := range layout[y] {
			if tiles.Layer(id) > 0 {
				walls++
			}
		}
	}
	route, _ := config.Route(layout, cfg.Wizard, cfg.Exit)
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Wizard: (%d,%d)  Exit: (%d,%d)", cfg.Wizard.X, cfg.Wizard.Y, cfg.Exit.X, cfg.Exit.Y),
		fmt.Sprintf("✓ Walls: %d", walls),
		fmt.Sprintf("✓ Connectivity: exit reachable in %d steps", len(route)),
	)
	return result
}

// main validates every *.yaml file of the directory given as the first
// argument, printing a concise report and exiting with non-zero status if
// any are invalid.
func main() {
	dir := defaultDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files in %s\n", dir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}

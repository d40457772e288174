// Package config loads and validates level definitions.
//
// Levels are YAML files. The built-in set is embedded in the binary; a level
// directory can add levels or override built-in ones with the same id.
//
// Level Format:
//
//	id: level1
//	name: Ruined courtyard
//	description: Walk the wizard down to the open door.
//	layout:            # MaxY rows of MaxX sprite ids
//	  - "36 0 0 0 36 0 0 0 0 38 0 0 0 0 0"
//	  ...
//	wizard: {x: 10, y: 5}
//	exit: {x: 10, y: 7}
//
// Ids below tiles.SheetSize are background and go on layer 0, every other id
// is a wall on layer 1.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//	level, err := manager.LoadLevel("level2")
//
// Validation:
//
// Levels are checked for:
//   - board dimensions and known sprite ids
//   - wizard and exit on free cells inside the board
//   - a wall on the staging cell, which hides queued spells
//   - a walkable path from the wizard to the exit
package config

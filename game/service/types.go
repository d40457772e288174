package service

import (
	"time"

	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/runtime"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string         `json:"id"`
	Level          string         `json:"level,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
	Status         runtime.Status `json:"status"`
}

// PressResult contains the board after a button press has been handled
type PressResult struct {
	Buttons []string   `json:"buttons"`
	Board   *BoardView `json:"board"`
}

// BoardView is what a remote player can see of a session without decoding
// the screen. Level fields are empty outside of a level.
type BoardView struct {
	State   string            `json:"state"`
	Level   string            `json:"level,omitempty"`
	Blocked bool              `json:"blocked,omitempty"`
	Wizard  *engine.Target    `json:"wizard,omitempty"`
	Exit    *engine.Target    `json:"exit,omitempty"`
	Spell   *engine.Target    `json:"spell,omitempty"`
	Tiles   [][]engine.TileID `json:"tiles,omitempty"`
	Rows    []string          `json:"rows,omitempty"`
	Status  runtime.Status    `json:"status"`
}

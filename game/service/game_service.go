package service

import (
	"context"
	"time"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/runtime"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, level string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Input
	Press(ctx context.Context, sessionID, button string) (*PressResult, error)
	PressSequence(ctx context.Context, sessionID string, buttons []string, wait time.Duration) (*PressResult, error)

	// Observation
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)
	Screen(ctx context.Context, sessionID string) ([]byte, error)

	// Levels
	ListLevels(ctx context.Context) ([]*config.LevelInfo, error)
	LoadLevel(ctx context.Context, id string) (*config.LevelConfig, error)
	SaveLevel(ctx context.Context, cfg *config.LevelConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, level string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelStore handles level loading. *config.Manager implements it.
type LevelStore interface {
	LoadLevel(id string) (*config.LevelConfig, error)
	ListLevels() ([]*config.LevelInfo, error)
	GetDefault() *config.LevelConfig
	SaveLevel(cfg *config.LevelConfig) error
}

// Session is one running game: a loop driving its own state machine and the
// canvas it draws on.
type Session struct {
	ID             string
	Level          string
	Canvas         *display.Canvas
	Loop           *runtime.Loop
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Stop ends the loop; it is safe to call more than once.
	Stop func()
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/state"
	"github.com/exor2008/koldun/game/tiles"
)

var (
	// ErrUnknownButton is returned for a button name outside the pad.
	ErrUnknownButton = errors.New("unknown button")
	// ErrTooManyPresses is returned when a sequence exceeds MaxSequence.
	ErrTooManyPresses = errors.New("too many presses")
)

// MaxSequence bounds the presses of one PressSequence call.
const MaxSequence = 32

// pollInterval is how often PressSequence checks whether input is accepted again.
const pollInterval = 10 * time.Millisecond

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelStore
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
	}
}

// CreateSession starts a new game. An empty level opens the start menu.
func (s *gameServiceImpl) CreateSession(ctx context.Context, level string) (*SessionInfo, error) {
	if level != "" {
		if _, err := s.levels.LoadLevel(level); err != nil {
			if errors.Is(err, config.ErrLevelNotFound) {
				return nil, fmt.Errorf("level '%s' not found. Use /api/levels to list available levels: %w", level, err)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", level, err)
		}
	}

	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession stops and removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Press presses and releases one button, then reports the board once the
// session has handled both edges.
func (s *gameServiceImpl) Press(ctx context.Context, sessionID, button string) (*PressResult, error) {
	return s.PressSequence(ctx, sessionID, []string{button}, 0)
}

// PressSequence presses buttons in order. With a positive wait, each press
// after the first waits up to that long for a running animation to release
// the input, so no press is swallowed by a blocked level.
func (s *gameServiceImpl) PressSequence(ctx context.Context, sessionID string, buttons []string, wait time.Duration) (*PressResult, error) {
	if len(buttons) > MaxSequence {
		return nil, fmt.Errorf("%w: %d, limit %d", ErrTooManyPresses, len(buttons), MaxSequence)
	}
	parsed := make([]engine.Button, len(buttons))
	for i, name := range buttons {
		b, ok := engine.ParseButton(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownButton, name)
		}
		parsed[i] = b
	}

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	for i, b := range parsed {
		if i > 0 && wait > 0 {
			if err := s.waitUnblocked(ctx, sess, wait); err != nil {
				return nil, err
			}
		}
		if err := sess.Loop.Press(ctx, b); err != nil {
			return nil, fmt.Errorf("press %s: %w", b, err)
		}
	}

	board, err := s.board(ctx, sess)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(parsed))
	for i, b := range parsed {
		names[i] = b.String()
	}
	return &PressResult{Buttons: names, Board: board}, nil
}

// GetBoard describes the current screen of a session.
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.board(ctx, sess)
}

// Screen returns the session's screen as a PNG image.
func (s *gameServiceImpl) Screen(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	// Let pending draws land before taking the picture.
	if err := sess.Loop.Inspect(ctx, func(*state.Machine) {}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sess.Canvas.Snapshot()); err != nil {
		return nil, fmt.Errorf("encode screen: %w", err)
	}
	return buf.Bytes(), nil
}

// ListLevels returns all available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*config.LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, id string) (*config.LevelConfig, error) {
	return s.levels.LoadLevel(id)
}

// SaveLevel validates and stores a level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, cfg *config.LevelConfig) error {
	return s.levels.SaveLevel(cfg)
}

func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		Level:          sess.Level,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Status:         sess.Loop.Status(),
	}
}

func (s *gameServiceImpl) waitUnblocked(ctx context.Context, sess *Session, limit time.Duration) error {
	deadline := time.Now().Add(limit)
	for {
		blocked := false
		err := sess.Loop.Inspect(ctx, func(m *state.Machine) {
			if level, ok := m.Current().(*state.Level); ok {
				blocked = level.Blocked()
			}
		})
		if err != nil {
			return err
		}
		if !blocked || time.Now().After(deadline) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (s *gameServiceImpl) board(ctx context.Context, sess *Session) (*BoardView, error) {
	view := &BoardView{}
	err := sess.Loop.Inspect(ctx, func(m *state.Machine) {
		view.State = m.Current().Name()
		level, ok := m.Current().(*state.Level)
		if !ok {
			return
		}
		view.Level = level.ID()
		view.Blocked = level.Blocked()
		describe(level.Grid(), view)
	})
	if err != nil {
		return nil, err
	}
	view.Status = sess.Loop.Status()
	return view, nil
}

// describe fills the board fields of view from grid.
func describe(grid *engine.Grid, view *BoardView) {
	if t, ok := grid.Find(engine.KindWizard); ok {
		view.Wizard = &t
	}
	if t, ok := grid.Find(engine.KindExit); ok {
		view.Exit = &t
	}
	if t, ok := grid.Find(engine.KindSpell); ok && t != engine.Staging {
		view.Spell = &t
	}

	snapshot := grid.Snapshot()
	view.Tiles = make([][]engine.TileID, engine.MaxY)
	view.Rows = make([]string, engine.MaxY)
	for y := 0; y < engine.MaxY; y++ {
		view.Tiles[y] = append([]engine.TileID(nil), snapshot[y][:]...)
		var row strings.Builder
		for x := 0; x < engine.MaxX; x++ {
			row.WriteByte(cellChar(grid, x, y))
		}
		view.Rows[y] = row.String()
	}
}

// cellChar is the one-letter legend used in BoardView.Rows:
// W wizard, E exit, * spell, # obstacle, . floor.
func cellChar(grid *engine.Grid, x, y int) byte {
	cell := grid.Cell(x, y)
	for z := engine.Layers - 1; z >= 0; z-- {
		item := cell.Item(z)
		if item == nil {
			continue
		}
		switch item.Kind() {
		case engine.KindWizard:
			return 'W'
		case engine.KindExit:
			return 'E'
		case engine.KindSpell:
			return '*'
		}
		if tiles.Layer(item.TileID()) > 0 {
			return '#'
		}
	}
	return '.'
}

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/levels"
	"github.com/exor2008/koldun/game/runtime"
	"github.com/exor2008/koldun/game/service"
	"github.com/exor2008/koldun/game/state"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrTooManySessions      = errors.New("too many sessions")
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Options configures the games a Manager starts.
type Options struct {
	Levels  *levels.Registry
	Assets  assets.Store
	Runtime runtime.Options
	// Mirror, when set, returns an extra display that receives every draw
	// call of session id next to its canvas.
	Mirror func(id string) display.Display
	// Limit caps the number of live sessions; zero means no cap.
	Limit int
}

// Manager handles game session lifecycle
type Manager struct {
	opts     Options
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*service.Session),
	}
}

// Create starts a new game under id. An empty id is replaced by a generated
// one; an empty level starts at the menu.
func (m *Manager) Create(id, level string) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if !validID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}
	if m.opts.Limit > 0 && len(m.sessions) >= m.opts.Limit {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, m.opts.Limit)
	}

	canvas := display.NewCanvas()
	var d display.Display = canvas
	if m.opts.Mirror != nil {
		d = display.Tee{canvas, m.opts.Mirror(id)}
	}

	var initial state.State = state.NewInitial(m.opts.Levels)
	if level != "" {
		initial = state.NewInitialAt(m.opts.Levels, level)
	}
	loop := runtime.New(state.NewMachine(d, m.opts.Assets, initial), m.opts.Runtime)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Printf("session %s: %v", id, err)
		}
	}()

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Level:          level,
		Canvas:         canvas,
		Loop:           loop,
		CreatedAt:      now,
		LastAccessedAt: now,
		Stop: func() {
			cancel()
			<-loop.Done()
		},
	}
	m.sessions[key] = session
	log.Printf("session %s: created (level %q)", id, level)
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id, level string) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, level)
	}
	return nil, err
}

// List returns all active sessions, oldest first
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete stops and removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	key := strings.ToLower(id)
	session, exists := m.sessions[key]
	if exists {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	session.Stop()
	log.Printf("session %s: deleted", session.ID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions stops and removes sessions that haven't been
// accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*service.Session
	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			expired = append(expired, session)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Stop()
	}
	if len(expired) > 0 {
		log.Printf("sessions: expired %d", len(expired))
	}
	return len(expired)
}

// RunCleanup expires idle sessions every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupExpiredSessions(maxAge)
		}
	}
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*service.Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Stop()
	}
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

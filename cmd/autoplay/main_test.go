package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/service"
)

// fakeGame serves a corridor level where the wizard restarts after it
// reaches the exit.
type fakeGame struct {
	mu      sync.Mutex
	rows    []string
	wizard  engine.Target
	start   engine.Target
	exit    engine.Target
	onExit  bool
	presses []string
}

func newFakeGame() *fakeGame {
	return &fakeGame{
		rows:   []string{"#####", "#W.E#", "#####"},
		wizard: engine.NewTarget(1, 1, 1),
		start:  engine.NewTarget(1, 1, 1),
		exit:   engine.NewTarget(3, 1, 0),
	}
}

func (g *fakeGame) board() *service.BoardView {
	w, e := g.wizard, g.exit
	return &service.BoardView{State: "level:corridor", Level: "corridor", Wizard: &w, Exit: &e, Rows: g.rows}
}

func (g *fakeGame) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case r.Method == "POST" && r.URL.Path == "/api/sessions":
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "ab12", Level: "corridor"})
	case r.Method == "GET" && r.URL.Path == "/api/sessions/ab12/board":
		if g.onExit {
			g.wizard, g.onExit = g.start, false
		}
		json.NewEncoder(w).Encode(g.board())
	case r.Method == "POST" && r.URL.Path == "/api/sessions/ab12/press":
		var req struct {
			Buttons []string `json:"buttons"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, b := range req.Buttons {
			g.presses = append(g.presses, b)
			if d, ok := engine.ParseDirection(b); ok {
				dx, dy := d.Delta()
				if g.rows[g.wizard.Y+dy][g.wizard.X+dx] != '#' {
					g.wizard.X += dx
					g.wizard.Y += dy
				}
			}
		}
		if g.wizard.X == g.exit.X && g.wizard.Y == g.exit.Y {
			g.onExit = true
		}
		json.NewEncoder(w).Encode(service.PressResult{Buttons: req.Buttons, Board: g.board()})
	default:
		http.NotFound(w, r)
	}
}

func TestPlay(t *testing.T) {
	game := newFakeGame()
	server := httptest.NewServer(game)
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	board, err := client.CreateSession(ctx, "corridor")
	require.NoError(t, err)
	assert.Equal(t, "ab12", client.sessionID)

	won, moves, err := Play(ctx, client, board, 10, time.Second, false)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, 2, moves)
	assert.Equal(t, []string{"reset", "right", "right"}, game.presses)
}

func TestPlayGivesUp(t *testing.T) {
	game := newFakeGame()
	server := httptest.NewServer(game)
	defer server.Close()

	client := NewClient(server.URL)
	board, err := client.CreateSession(context.Background(), "corridor")
	require.NoError(t, err)

	won, moves, err := Play(context.Background(), client, board, 1, time.Second, false)
	require.NoError(t, err)
	assert.False(t, won)
	assert.Equal(t, 1, moves)
}

func TestClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"level not found","code":404}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateSession(context.Background(), "level9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level not found")
}

// Command autoplay plays a level through the REST API: it opens a session,
// reads the board map, walks the wizard to the exit along a shortest path and
// checks that the level restarted.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/exor2008/koldun/game/service"
)

// Client talks to the REST API for one session.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// CreateSession opens a game on level and leaves the power-on screen.
func (c *Client) CreateSession(ctx context.Context, level string) (*service.BoardView, error) {
	var info service.SessionInfo
	if err := c.call(ctx, "POST", "/api/sessions", map[string]string{"level": level}, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	// Reset is harmless on the power-on screen: only its release reaches the level.
	return c.Press(ctx, []string{"reset"}, 0)
}

// Board returns the current board.
func (c *Client) Board(ctx context.Context) (*service.BoardView, error) {
	var board service.BoardView
	if err := c.call(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", c.sessionID), nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// Press sends buttons, waiting up to wait for each walk to finish.
func (c *Client) Press(ctx context.Context, buttons []string, wait time.Duration) (*service.BoardView, error) {
	req := map[string]interface{}{
		"buttons": buttons,
		"wait_ms": wait.Milliseconds(),
	}
	var result service.PressResult
	if err := c.call(ctx, "POST", fmt.Sprintf("/api/sessions/%s/press", c.sessionID), req, &result); err != nil {
		return nil, err
	}
	return result.Board, nil
}

// Play walks the wizard to the exit one step at a time, replanning after
// every step. It reports whether the level was won within maxMoves.
func Play(ctx context.Context, c *Client, board *service.BoardView, maxMoves int, wait time.Duration, verbose bool) (bool, int, error) {
	start, ok := targetPos(board.Wizard)
	if !ok {
		return false, 0, fmt.Errorf("no wizard on the board (state %s)", board.State)
	}

	moves := 0
	for moves < maxMoves {
		plan := Plan(board)
		if plan == nil {
			return false, moves, fmt.Errorf("no path from (%d,%d) to the exit", board.Wizard.X, board.Wizard.Y)
		}
		if len(plan) == 0 {
			return true, moves, nil
		}

		next, err := c.Press(ctx, plan[:1], wait)
		if err != nil {
			return false, moves, err
		}
		moves++
		if verbose {
			log.Printf("move %d: %s -> wizard %v", moves, plan[0], next.Wizard)
		}

		// The exit restarts the level on the event after the wizard reaches it.
		if len(plan) == 1 {
			won, err := c.waitRestart(ctx, start, wait)
			if err != nil {
				return false, moves, err
			}
			if won {
				return true, moves, nil
			}
			if next, err = c.Board(ctx); err != nil {
				return false, moves, err
			}
		}
		board = next
	}
	return false, moves, nil
}

// waitRestart polls the board until the wizard is back at start.
func (c *Client) waitRestart(ctx context.Context, start Position, wait time.Duration) (bool, error) {
	deadline := time.Now().Add(wait)
	for {
		board, err := c.Board(ctx)
		if err != nil {
			return false, err
		}
		if pos, ok := targetPos(board.Wizard); ok && pos == start {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

const pollInterval = 50 * time.Millisecond

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	level := flag.String("level", "level1", "Level to play")
	maxMoves := flag.Int("max-moves", 200, "Maximum moves per attempt")
	maxAttempts := flag.Int("max-attempts", 3, "Maximum attempts before giving up")
	wait := flag.Duration("wait", 2*time.Second, "How long to wait for each walk")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	ctx := context.Background()
	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	for attempt := 1; attempt <= *maxAttempts; attempt++ {
		log.Printf("=== Attempt %d/%d ===", attempt, *maxAttempts)
		board, err := client.CreateSession(ctx, *level)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s (state %s)", client.sessionID, board.State)

		won, moves, err := Play(ctx, client, board, *maxMoves, *wait, *verbose)
		if err != nil {
			log.Printf("Attempt %d failed: %v", attempt, err)
			continue
		}
		if won {
			log.Printf("VICTORY! Level %s won in %d moves (session %s)", *level, moves, client.sessionID)
			os.Exit(0)
		}
		log.Printf("Attempt %d: gave up after %d moves", attempt, moves)
	}

	log.Printf("Failed to win after %d attempts", *maxAttempts)
	os.Exit(1)
}

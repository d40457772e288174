package websocket

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub registration channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{id: "c1", hub: hub, sessionID: "test-session", send: make(chan []byte, 256)}

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{id: "c1", hub: hub, sessionID: "test-session", send: make(chan []byte, 256)}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Client send channel should be closed")
	}
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"
	client1 := &Client{id: "c1", hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{id: "c2", hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)
	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestMirrorOperations(t *testing.T) {
	hub := NewHub()
	d := hub.Display("draw-test")
	ctx := context.Background()
	bitmap := make([]byte, display.TileBytes)
	bitmap[0] = 0xf8

	bg := display.White
	steps := []struct {
		name string
		call func() error
		want DrawOp
	}{
		{"clear", func() error { return d.Clear(ctx, display.WallBG) },
			DrawOp{Kind: "clear", W: display.Width, H: display.Height, Color: display.WallBG}},
		{"tile", func() error { return d.DrawTile(ctx, image.Pt(32, 64), bitmap) },
			DrawOp{Kind: "tile", X: 32, Y: 64, W: 32, H: 32, Bitmap: bitmap}},
		{"area", func() error { return d.DrawSolidArea(ctx, image.Rect(1, 2, 11, 22), display.Black) },
			DrawOp{Kind: "area", X: 1, Y: 2, W: 10, H: 20, Color: display.Black}},
		{"text", func() error { return d.DrawText(ctx, "hi", image.Pt(5, 6), display.WizardFG, &bg) },
			DrawOp{Kind: "text", X: 5, Y: 6, Color: display.WizardFG, BG: &bg, Text: "hi"}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if err := step.call(); err != nil {
				t.Fatalf("draw failed: %v", err)
			}
			msg := <-hub.broadcast
			if msg.SessionID != "draw-test" || msg.Event != EventDraw {
				t.Fatalf("unexpected message %+v", msg)
			}
			got := msg.Op
			if got.Kind != step.want.Kind || got.X != step.want.X || got.Y != step.want.Y ||
				got.W != step.want.W || got.H != step.want.H || got.Color != step.want.Color || got.Text != step.want.Text {
				t.Errorf("expected %+v, got %+v", step.want, *got)
			}
			if (got.BG == nil) != (step.want.BG == nil) || (got.BG != nil && *got.BG != *step.want.BG) {
				t.Errorf("background mismatch")
			}
			if string(got.Bitmap) != string(step.want.Bitmap) {
				t.Errorf("bitmap mismatch")
			}
		})
	}

	if err := d.DrawTile(ctx, image.Pt(0, 0), []byte{1, 2}); err != display.ErrBitmapSize {
		t.Errorf("Expected ErrBitmapSize, got %v", err)
	}
}

func TestClientMessageEvents(t *testing.T) {
	tests := []struct {
		msg     ClientMessage
		want    []engine.Event
		wantErr error
	}{
		{ClientMessage{Button: "left"}, []engine.Event{engine.Press(engine.ButtonLeft), engine.Release(engine.ButtonLeft)}, nil},
		{ClientMessage{Button: "RESET", State: "pressed"}, []engine.Event{engine.Press(engine.ButtonReset)}, nil},
		{ClientMessage{Button: "up", State: "released"}, []engine.Event{engine.Release(engine.ButtonUp)}, nil},
		{ClientMessage{Button: "jump"}, nil, errUnknownButton},
		{ClientMessage{Button: "up", State: "held"}, nil, errUnknownState},
	}

	for _, tt := range tests {
		t.Run(tt.msg.Button+"/"+tt.msg.State, func(t *testing.T) {
			got, err := tt.msg.Events()
			if err != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

type inputRecorder struct {
	mu     sync.Mutex
	events []engine.Event
	ids    []string
}

func (r *inputRecorder) push(_ context.Context, sessionID string, ev engine.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, sessionID)
	r.events = append(r.events, ev)
	return nil
}

func (r *inputRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return msg
}

func TestWebSocketSpectator(t *testing.T) {
	hub := NewHub()
	hub.OnConnect(func(_ context.Context, sessionID string) ([]byte, error) {
		return []byte("png:" + sessionID), nil
	})
	url := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?session=watch", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	hello := readMessage(t, conn)
	if hello.Event != EventHello || hello.ClientID == "" {
		t.Fatalf("Expected hello with a client id, got %+v", hello)
	}
	frame := readMessage(t, conn)
	if frame.Event != EventFrame || frame.Data != "cG5nOndhdGNo" {
		t.Fatalf("Expected frame with the base64 snapshot, got %+v", frame)
	}

	// Registration happens right after the greeting is queued.
	time.Sleep(20 * time.Millisecond)
	hub.Display("watch").Clear(context.Background(), display.StartMenuBG)
	hub.Display("other").Clear(context.Background(), display.Black)

	draw := readMessage(t, conn)
	if draw.Event != EventDraw || draw.Op == nil || draw.Op.Kind != "clear" || draw.Op.Color != display.StartMenuBG {
		t.Fatalf("Expected the clear of this session, got %+v", draw)
	}
}

func TestWebSocketRemotePad(t *testing.T) {
	hub := NewHub()
	rec := &inputRecorder{}
	hub.OnInput(rec.push)
	url := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?session=pad", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	if err := conn.WriteJSON(ClientMessage{Button: "down"}); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for rec.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 {
		t.Fatalf("Expected press and release, got %v", rec.events)
	}
	if rec.events[0] != engine.Press(engine.ButtonDown) || rec.events[1] != engine.Release(engine.ButtonDown) {
		t.Errorf("Unexpected events %v", rec.events)
	}
	if rec.ids[0] != "pad" {
		t.Errorf("Expected session 'pad', got %s", rec.ids[0])
	}
}

func TestWebSocketBadMessage(t *testing.T) {
	hub := NewHub()
	hub.OnInput(func(context.Context, string, engine.Event) error { return nil })
	url := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?session=bad", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)
	time.Sleep(20 * time.Millisecond)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"button":"fly"}`)); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Event != EventError || msg.Data != errUnknownButton.Error() {
		t.Errorf("Expected unknown button error, got %+v", msg)
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"image"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Draw operations waiting for the hub loop. A full queue drops operations.
	broadcastQueue = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Outgoing events.
const (
	EventHello = "hello"
	EventFrame = "frame"
	EventDraw  = "draw"
	EventError = "error"
)

// Message represents a WebSocket message
type Message struct {
	SessionID string      `json:"session_id"`
	Event     string      `json:"event"`
	ClientID  string      `json:"client_id,omitempty"`
	Op        *DrawOp     `json:"op,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// DrawOp mirrors one call of display.Display. Bitmaps travel as base64.
type DrawOp struct {
	Kind   string         `json:"kind"` // "clear", "tile", "area" or "text"
	X      int            `json:"x"`
	Y      int            `json:"y"`
	W      int            `json:"w,omitempty"`
	H      int            `json:"h,omitempty"`
	Color  display.Color  `json:"color"`
	BG     *display.Color `json:"bg,omitempty"`
	Text   string         `json:"text,omitempty"`
	Bitmap []byte         `json:"bitmap,omitempty"`
}

// ClientMessage is what a remote pad sends: a button name and an optional
// edge. Without a state the button is pressed and released.
type ClientMessage struct {
	Button string `json:"button"`
	State  string `json:"state,omitempty"` // "pressed" or "released"
}

// InputFunc delivers a remote button event to session sessionID.
type InputFunc func(ctx context.Context, sessionID string, ev engine.Event) error

// SnapshotFunc returns the current screen of a session as PNG.
type SnapshotFunc func(ctx context.Context, sessionID string) ([]byte, error)

// Client represents a WebSocket client
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for the clients of a session
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	input    InputFunc
	snapshot SnapshotFunc
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// OnInput routes button messages of clients to fn. Call it before serving.
func (h *Hub) OnInput(fn InputFunc) { h.input = fn }

// OnConnect makes new clients receive the current screen from fn first. Call
// it before serving.
func (h *Hub) OnConnect(fn SnapshotFunc) { h.snapshot = fn }

// Run starts the hub's event loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.queue(&Message{SessionID: sessionID, Event: EventHello, ClientID: client.id})
	if h.snapshot != nil {
		frame, err := h.snapshot(r.Context(), sessionID)
		if err != nil {
			client.queue(&Message{SessionID: sessionID, Event: EventError, Data: err.Error()})
		} else {
			client.queue(&Message{SessionID: sessionID, Event: EventFrame, Data: frame})
		}
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Display returns a display that mirrors draw calls to the clients of
// sessionID. Calls never block; operations that do not fit the hub queue are
// dropped and clients catch up on their next connect.
func (h *Hub) Display(sessionID string) display.Display {
	return &mirror{hub: h, sessionID: sessionID}
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{SessionID: sessionID, Event: event, Data: data})
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("WebSocket queue full, dropping %s for session %s", message.Event, message.SessionID)
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client %s registered for session %s (total clients: %d)",
		client.id, client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client %s unregistered from session %s (remaining clients: %d)",
				client.id, client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// queue sends message to this client only. Used before registration.
func (c *Client) queue(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump turns client messages into button events
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		if err := c.handle(data); err != nil {
			c.hub.enqueue(&Message{SessionID: c.sessionID, Event: EventError, ClientID: c.id, Data: err.Error()})
		}
	}
}

func (c *Client) handle(data []byte) error {
	if c.hub.input == nil {
		return errInputDisabled
	}
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errBadMessage
	}
	events, err := msg.Events()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	for _, ev := range events {
		if err := c.hub.input(ctx, c.sessionID, ev); err != nil {
			return err
		}
	}
	return nil
}

// Events converts the message into button edges.
func (m ClientMessage) Events() ([]engine.Event, error) {
	b, ok := engine.ParseButton(strings.ToLower(m.Button))
	if !ok {
		return nil, errUnknownButton
	}
	switch strings.ToLower(m.State) {
	case "":
		return []engine.Event{engine.Press(b), engine.Release(b)}, nil
	case "pressed":
		return []engine.Event{engine.Press(b)}, nil
	case "released":
		return []engine.Event{engine.Release(b)}, nil
	}
	return nil, errUnknownState
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// mirror implements display.Display on top of the hub.
type mirror struct {
	hub       *Hub
	sessionID string
}

func (m *mirror) send(op *DrawOp) error {
	m.hub.enqueue(&Message{SessionID: m.sessionID, Event: EventDraw, Op: op})
	return nil
}

func (m *mirror) Clear(_ context.Context, c display.Color) error {
	return m.send(&DrawOp{Kind: "clear", W: display.Width, H: display.Height, Color: c})
}

func (m *mirror) DrawTile(_ context.Context, origin image.Point, bitmap []byte) error {
	if len(bitmap) != display.TileBytes {
		return display.ErrBitmapSize
	}
	return m.send(&DrawOp{
		Kind:   "tile",
		X:      origin.X,
		Y:      origin.Y,
		W:      display.TileSide,
		H:      display.TileSide,
		Bitmap: append([]byte(nil), bitmap...),
	})
}

func (m *mirror) DrawSolidArea(_ context.Context, area image.Rectangle, c display.Color) error {
	return m.send(&DrawOp{Kind: "area", X: area.Min.X, Y: area.Min.Y, W: area.Dx(), H: area.Dy(), Color: c})
}

func (m *mirror) DrawText(_ context.Context, text string, origin image.Point, fg display.Color, bg *display.Color) error {
	op := &DrawOp{Kind: "text", X: origin.X, Y: origin.Y, Color: fg, Text: text}
	if bg != nil {
		op.BG = display.Ptr(*bg)
	}
	return m.send(op)
}

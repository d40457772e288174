// Package websocket provides the WebSocket transport for Koldun.
//
// The websocket package implements:
//   - Spectating: every draw call of a session is mirrored to its clients
//   - Remote pads: clients send button messages to the session they watch
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing. Hub.Display returns a
// display.Display that a session draws on next to its canvas.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"button": "left"} or {"button": "left", "state": "pressed"}
//   - Outgoing: {"event": "hello", "client_id": ...} once, then
//     {"event": "frame", "data": <base64 PNG>} with the current screen, then
//     {"event": "draw", "op": {...}} for every draw call
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=abc1) when
// establishing the connection. Draw calls are broadcast only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.OnInput(pushToSession)
//	hub.OnConnect(screenOfSession)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket

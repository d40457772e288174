// Package api provides the HTTP REST API of Koldun.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Start a game, optionally {"level": "level1"} to skip the menu
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Stop a session
//
// Input and Observation:
//   - POST /api/sessions/{id}/buttons/{button} - Press and release up|down|left|right|reset
//   - POST /api/sessions/{id}/press - {"buttons": [...], "wait_ms": 800}
//   - GET /api/sessions/{id}/board - Board summary with a one-letter map
//   - GET /api/sessions/{id}/screen.png - The 480x320 screen
//
// Levels:
//   - GET /api/levels - List levels
//   - GET /api/levels/{id} - Get a level definition
//   - POST /api/levels - Validate and save a level (needs a level directory)
//
// Other:
//   - GET /ws?session={id} - Spectate and play over WebSocket
//   - GET /metrics - Prometheus metrics
//   - GET /health - Liveness
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
package api

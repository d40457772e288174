// Package mcp provides the Model Context Protocol server of Koldun.
//
// The server is a thin client of the REST API: every tool call becomes one
// HTTP request to a running "koldun serve". It runs over stdio for local
// MCP clients, or over HTTP under /mcp of the serve command.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, delete_session
//   - board: State and a one-letter map of the level
//   - press_button: Press and release one button
//   - press_sequence: Press several buttons, waiting out each walk
//   - screen: The screen as PNG image content
//   - list_levels: Available levels
//   - game_instructions: Rules of the game
//   - describe_cell: What occupies one cell
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp

package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/items"
	"github.com/exor2008/koldun/game/service"
)

// defaultWaitMS is how long press_sequence waits for each walk to finish
// unless the caller asks otherwise.
const defaultWaitMS = 1000

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Koldun",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Koldun - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk the wizard (W) onto the exit (E). The game has a five button pad:
up, down, left, right and reset.

AVAILABLE TOOLS:
- create_session: Start a game, optionally straight into a level
- list_sessions / get_session / delete_session: Manage games
- board: Text map of the current level
- press_button: Press and release one button
- press_sequence: Press several buttons, waiting for each walk to finish
- screen: The 480x320 screen as a PNG image
- list_levels: Available levels
- game_instructions: Rules, including spells
- describe_cell: What occupies one cell

NOTE: The 'intent' parameter on press tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. Without a level the game opens on the start menu",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Level to open directly (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Stop a game session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board",
		Description: "Get the current state and a text map of the level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "press_button",
		Description: "Press and release one button",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"button": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "reset"},
					"description": "Button to press",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this press (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "button"},
		},
	}, c.handlePressButton)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "press_sequence",
		Description: "Press several buttons in order. Before each press the game waits until the wizard stops walking",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"buttons": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right", "reset"},
					},
					"description": "Buttons to press",
				},
				"wait_ms": map[string]interface{}{
					"type":        "number",
					"description": "How long to wait for each walk to finish (default 1000)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "buttons"},
		},
	}, c.handlePressSequence)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "screen",
		Description: "Get the screen of a session as a PNG image",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleScreen)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what occupies one cell of the level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Column, 0 to %d", engine.MaxX-1),
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Row, 0 to %d", engine.MaxY-1),
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// do sends a request to the REST API and returns the response on success.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return resp, nil
}

// apiCall makes a JSON request to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	level, _ := args["level"].(string)

	body := map[string]string{}
	if level != "" {
		body["level"] = level
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n", session.ID)
	if session.Level != "" {
		result += fmt.Sprintf("Level: %s\n", session.Level)
	}
	result += "Press any button to leave the power-on screen.\n"
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}
	result := "Active Sessions:\n"
	for _, session := range resp.Sessions {
		result += formatSessionInfo(session)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	if err := c.apiCall(ctx, "DELETE", "/api/sessions/"+sessionID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", sessionID), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handlePressButton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	button, _ := args["button"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = args["intent"]

	var result service.PressResult
	path := fmt.Sprintf("/api/sessions/%s/buttons/%s", sessionID, button)
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPressResult(&result)), nil
}

func (c *Client) handlePressSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	buttonsRaw, _ := args["buttons"].([]interface{})
	_ = args["intent"]

	buttons := make([]string, 0, len(buttonsRaw))
	for _, b := range buttonsRaw {
		if button, ok := b.(string); ok {
			buttons = append(buttons, button)
		}
	}

	waitMS := defaultWaitMS
	if w, ok := args["wait_ms"].(float64); ok && w >= 0 {
		waitMS = int(w)
	}

	body := map[string]interface{}{
		"buttons": buttons,
		"wait_ms": waitMS,
	}
	var result service.PressResult
	path := fmt.Sprintf("/api/sessions/%s/press", sessionID)
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPressResult(&result)), nil
}

func (c *Client) handleScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	resp, err := c.do(ctx, "GET", fmt.Sprintf("/api/sessions/%s/screen.png", sessionID), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := fmt.Sprintf("Screen of session %s (%dx%d)", sessionID,
		engine.MaxX*engine.TileSize, engine.MaxY*engine.TileSize)
	return mcp.NewToolResultImage(text, base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []*config.LevelInfo
	if err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s (%s)\n  %s\n", level.ID, level.Source, level.Name)
		if level.Description != "" {
			result += fmt.Sprintf("  %s\n", level.Description)
		}
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Koldun - Instructions

GAME OBJECTIVE:
Walk the wizard onto the exit of the level. Reaching it restarts the level.

SCREENS:
• Power-on: any button opens the start menu (or the requested level)
• Start menu: up/down select an entry, right confirms "New game"
• Level: directions walk the wizard one cell, reset opens the spell screen
• Spell screen: directions queue spell commands (at most %d), reset casts

MECHANICS:
• The board is %dx%d cells
• A walk takes a moment; buttons pressed while the wizard walks are ignored.
  press_sequence waits for each walk to finish before the next press.
• Stones (#) block movement.
• Casting places the spell on the board next to the wizard, in the
  direction of its first command. It does not move after that.

BOARD LEGEND:
• W - Wizard
• E - Exit
• * - Spell
• # - Obstacle
• . - Floor

STRATEGY:
1. Call board to see the map
2. Plan a path around the obstacles
3. Send it with press_sequence`, items.MaxSpellCommands, engine.MaxX, engine.MaxY)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}
	x, y := int(xf), int(yf)
	if x < 0 || x >= engine.MaxX || y < 0 || y >= engine.MaxY {
		return mcp.NewToolResultError(fmt.Sprintf("cell (%d,%d) is off the board", x, y)), nil
	}

	var board service.BoardView
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", sessionID), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(describeCell(&board, x, y)), nil
}

func formatSessionInfo(session *service.SessionInfo) string {
	line := fmt.Sprintf("• %s  state=%s", session.ID, session.Status.State)
	if session.Level != "" {
		line += "  level=" + session.Level
	}
	return line + fmt.Sprintf("  created=%s\n", session.CreatedAt.Format(time.RFC3339))
}

func formatTarget(t *engine.Target) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

func formatBoard(board *service.BoardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", board.State)
	if board.Level == "" {
		b.WriteString("No level open. Use press_button to navigate.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Level: %s\n", board.Level)
	fmt.Fprintf(&b, "Wizard: %s  Exit: %s", formatTarget(board.Wizard), formatTarget(board.Exit))
	if board.Spell != nil {
		fmt.Fprintf(&b, "  Spell: %s", formatTarget(board.Spell))
	}
	b.WriteString("\n")
	if board.Blocked {
		b.WriteString("The wizard is walking; input is ignored until it stops.\n")
	}

	b.WriteString("\n   ")
	for x := 0; x < engine.MaxX; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range board.Rows {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}
	return b.String()
}

func formatPressResult(result *service.PressResult) string {
	header := fmt.Sprintf("Pressed: %s\n\n", strings.Join(result.Buttons, ", "))
	if result.Board == nil {
		return header
	}
	return header + formatBoard(result.Board)
}

func describeCell(board *service.BoardView, x, y int) string {
	if board.Level == "" || y >= len(board.Rows) || x >= len(board.Rows[y]) {
		return fmt.Sprintf("Cell (%d,%d): no level open", x, y)
	}

	var what string
	switch board.Rows[y][x] {
	case 'W':
		what = "the wizard"
	case 'E':
		what = "the exit, walk onto it to win"
	case '*':
		what = "a spell"
	case '#':
		what = "an obstacle, impassable"
	default:
		what = "floor, passable"
	}

	result := fmt.Sprintf("Cell (%d,%d): %s", x, y, what)
	if y < len(board.Tiles) && x < len(board.Tiles[y]) {
		result += fmt.Sprintf("\nTile: %d", board.Tiles[y][x])
	}
	return result
}

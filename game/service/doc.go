// Package service provides the business logic layer for Koldun.
//
// The service package implements:
//   - Multi-session game management
//   - Button input with optional waiting for animations
//   - Board and screen observation
//   - Level listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelStore manages level loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the running games. Every session owns a runtime.Loop; the service never
// touches a board directly but asks the loop to run an inspection on its own
// goroutine.
//
// Usage:
//
//	levels, _ := config.NewManager("")
//	sessions := session.NewManager(session.Options{...})
//	svc := service.NewGameService(sessions, levels)
//
//	info, err := svc.CreateSession(ctx, "level1")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := svc.Press(ctx, info.ID, "down")
package service

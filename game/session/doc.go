// Package session runs independent games side by side.
//
// Every session owns a canvas, a state machine and a runtime.Loop running on
// its own goroutine. The Manager creates sessions under short IDs, looks them
// up case-insensitively and stops their loops when they are deleted, closed
// or expire after a period without access.
//
// Usage:
//
//	manager := session.NewManager(session.Options{
//		Levels: levels.NewRegistry(levelManager),
//		Assets: store,
//	})
//	defer manager.Close()
//
//	sess, err := manager.Create("", "level1")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Loop.Press(ctx, engine.ButtonDown)
package session

// Package runtime drives a state machine from a bounded event queue.
//
// Any number of producers push events: the built-in ticker, terminal or
// window key handlers, websocket clients and REST calls. A single goroutine
// started by Loop.Run takes them off the queue and hands them to the machine
// one at a time, so the board is never touched concurrently and every event,
// draw calls included, completes before the next one starts.
package runtime

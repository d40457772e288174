// Package state implements the screens of the game and the machine switching
// between them.
//
// The machine starts in Initial and moves to StartMenu on the first event.
// "New game" opens a Level. Pressing Reset inside a level detaches its board
// into a SpellScreen, where directional presses queue a spell; Reset again
// rebuilds the Level on the same board with the spell staged. Reaching the
// exit replaces the Level with a fresh copy of itself.
//
// Every state draws through a display.Display; only a Level reads the asset
// store, once, while it initializes.
package state

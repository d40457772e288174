// Package items holds the occupants of the board: static sprites, the wizard
// the player controls, the exit and cast spells.
//
// Items only ever request changes through actions. The grid applies them and
// hands the accepted ones back as reactions; only then does an item update its
// own position or state.
package items

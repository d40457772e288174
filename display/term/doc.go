// Package term presents the game canvas in a terminal through tcell and reads
// the pad from the keyboard.
package term

// Package window shows the game canvas in a desktop window with ebiten.
package window

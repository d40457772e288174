// Package display defines the drawing surface of the game and its in-memory
// implementation.
//
// Display is the capability the game renders through: clear, tile blit, solid
// fill and text. Colors are RGB565 and tile bitmaps are big-endian RGB565
// pixels, row major, TileSide pixels wide.
//
// Canvas keeps a Width by Height framebuffer that presenters (the terminal in
// display/term, the window in display/window, the REST screenshot) read back.
// Tee fans calls out to several displays, for example a Canvas and the
// websocket mirror.
package display

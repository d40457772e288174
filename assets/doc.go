// Package assets provides the read-only memory tile bitmaps are loaded from.
//
// The atlas is one blob holding the RGB565 bitmap of every tile at offset
// id*display.TileBytes (see Locate). It can be built in memory (Builtin),
// written to a file (WriteAtlas, read back with OpenFile) or installed into
// the per-user data directory (GdataStore). Levels only read it while they
// initialize.
package assets

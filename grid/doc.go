// Package grid holds the settled-bubble board of a game: the fixed
// Columns×Rows array of cells, the conversions between grid space and play
// space, and the queries the game runs against the board each tick
// (lateral and vertical collision, chain detection, floater lifting and the
// settle-bounce animation).
//
// Grid space addresses cells by column and row, row 0 at the top. Play space
// is a pixel-like space where one cell is CellSize units wide; a falling
// bubble moves continuously in play space and only becomes a grid cell once
// it settles.
package grid

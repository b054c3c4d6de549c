package grid

const (
	// OriginX and OriginY locate the top-left corner of the play area in
	// window space.
	OriginX = 100
	OriginY = 50

	playWidth  = Columns * CellSize
	playHeight = Rows * CellSize
)

// GridToPlay converts a grid index to the play-space position of its
// top-left corner. Indices outside the board are converted too; spawning
// uses negative rows above the board.
func GridToPlay(i Index) Point {
	return Point{X: i.Col * CellSize, Y: i.Row * CellSize}
}

// PlayToGrid converts a cell-aligned play position back to a grid index.
// It fails for positions that are not multiples of CellSize or that lie
// outside [0, Columns*CellSize] × [0, Rows*CellSize]. The far edges are
// accepted and map to column Columns or the floor row Rows.
func PlayToGrid(p Point) (Index, bool) {
	if p.X < 0 || p.Y < 0 || p.X > playWidth || p.Y > playHeight {
		return Index{}, false
	}
	if p.X%CellSize != 0 || p.Y%CellSize != 0 {
		return Index{}, false
	}
	return Index{Col: p.X / CellSize, Row: p.Y / CellSize}, true
}

// PlayToWindow offsets a play position by the play-area origin.
func PlayToWindow(p Point) (Point, bool) {
	if p.X < 0 || p.Y < 0 || p.X > playWidth || p.Y > playHeight {
		return Point{}, false
	}
	return Point{X: p.X + OriginX, Y: p.Y + OriginY}, true
}

// WindowToPlay is the inverse of PlayToWindow and fails outside the play
// area rectangle.
func WindowToPlay(w Point) (Point, bool) {
	if w.X < OriginX || w.Y < OriginY || w.X > OriginX+playWidth || w.Y > OriginY+playHeight {
		return Point{}, false
	}
	return Point{X: w.X - OriginX, Y: w.Y - OriginY}, true
}

// NearestVerticalGrid returns the grid cells a bubble at play position p
// overlaps vertically: one when p is row-aligned, two when it straddles a
// row boundary. a is always the upper cell. Rows may be negative (above the
// board) or equal to Rows (the floor).
func NearestVerticalGrid(p Point) (n int, a, b Index) {
	col := floorDiv(p.X, CellSize)
	row := floorDiv(p.Y, CellSize)
	a = Index{Col: col, Row: row}
	if p.Y-row*CellSize == 0 {
		return 1, a, a
	}
	return 2, a, Index{Col: col, Row: row + 1}
}

func floorDiv(v, d int) int {
	q := v / d
	if v%d != 0 && v < 0 {
		q--
	}
	return q
}

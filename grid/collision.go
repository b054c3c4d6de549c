package grid

// Fits reports whether a bubble whose top-left corner is at play position p
// can occupy that position: its column is on the board, it is above the
// floor, and none of the rows it overlaps hold a settled bubble. Rows above
// the board are always free.
func (g *Grid) Fits(p Point) bool {
	n, a, b := NearestVerticalGrid(p)
	if a.Col < 0 || a.Col >= Columns {
		return false
	}
	rows := [2]Index{a, b}
	for _, i := range rows[:n] {
		if i.Row >= Rows || g.IsIdle(i) {
			return false
		}
	}
	return true
}

// CanGoLeft reports whether both bubbles of a pair can shift one column left.
func (g *Grid) CanGoLeft(main, buddy Point) bool {
	return g.Fits(main.Add(-CellSize, 0)) && g.Fits(buddy.Add(-CellSize, 0))
}

// CanGoRight reports whether both bubbles of a pair can shift one column right.
func (g *Grid) CanGoRight(main, buddy Point) bool {
	return g.Fits(main.Add(CellSize, 0)) && g.Fits(buddy.Add(CellSize, 0))
}

func (g *Grid) blocks(i Index) bool {
	return i.Row == Rows || g.IsIdle(i)
}

// SnapDown checks a falling bubble's next position. When one of the cells
// it would overlap is the floor or a settled bubble, hit is true and rest is
// the cell directly above that obstacle, where the bubble settles. The upper
// overlapped cell is checked first.
func (g *Grid) SnapDown(next Point) (rest Index, hit bool) {
	n, a, b := NearestVerticalGrid(next)
	switch {
	case g.blocks(a):
		return Index{Col: a.Col, Row: a.Row - 1}, true
	case n == 2 && g.blocks(b):
		return Index{Col: b.Col, Row: b.Row - 1}, true
	}
	return Index{}, false
}

package grid

import (
	"fmt"
	"iter"
)

// Grid is the board, addressed [column][row].
type Grid [Columns][Rows]Cell

// New returns an initialised board.
func New() *Grid {
	g := &Grid{}
	g.Init()
	return g
}

// Init resets every cell to an empty (Dead) cell at its canonical position.
func (g *Grid) Init() {
	for col := range Columns {
		for row := range Rows {
			i := Index{Col: col, Row: row}
			g[col][row] = Cell{
				Position: GridToPlay(i),
				Color:    Red,
				State:    Dead,
			}
		}
	}
}

// InBounds reports whether i addresses a cell on the board.
func InBounds(i Index) bool {
	return i.Col >= 0 && i.Col < Columns && i.Row >= 0 && i.Row < Rows
}

// At returns the cell at i, or false when i is off the board.
func (g *Grid) At(i Index) (*Cell, bool) {
	if !InBounds(i) {
		return nil, false
	}
	return &g[i.Col][i.Row], true
}

// Cell returns the cell at i. Callers must pass an on-board index.
func (g *Grid) Cell(i Index) *Cell {
	c, ok := g.At(i)
	if !ok {
		panic(fmt.Sprintf("grid: index %v out of range [0,%d)x[0,%d)", i, Columns, Rows))
	}
	return c
}

// IsIdle reports whether i is on the board and holds a settled bubble.
func (g *Grid) IsIdle(i Index) bool {
	c, ok := g.At(i)
	return ok && c.State == Idle
}

// All yields every cell in row-major order: all columns of row 0, then
// row 1, and so on.
func (g *Grid) All() iter.Seq2[Index, *Cell] {
	return func(yield func(Index, *Cell) bool) {
		for row := range Rows {
			for col := range Columns {
				if !yield(Index{Col: col, Row: row}, &g[col][row]) {
					return
				}
			}
		}
	}
}

// Count returns the number of cells in state s.
func (g *Grid) Count(s State) int {
	n := 0
	for _, c := range g.All() {
		if c.State == s {
			n++
		}
	}
	return n
}

// Settle turns the cell at i into an idle bubble of the given color and
// starts its settle bounce.
func (g *Grid) Settle(i Index, color Color, bounce int8) {
	c := g.Cell(i)
	*c = Cell{
		Position:     GridToPlay(i),
		Color:        color,
		State:        Idle,
		BounceAmount: bounce,
		BounceDir:    -1,
	}
}

// AdvanceDying steps the animation of every dying cell by one frame,
// stopping at the last frame.
func (g *Grid) AdvanceDying() {
	for _, c := range g.All() {
		if c.State == Dying && c.AnimationFrame < BubbleFrames-1 {
			c.AnimationFrame++
		}
	}
}

// ClearDying removes every dying cell from the board and returns how many
// were removed.
func (g *Grid) ClearDying() int {
	n := 0
	for _, c := range g.All() {
		if c.State == Dying {
			c.State = Dead
			c.AnimationFrame = 0
			n++
		}
	}
	return n
}

// LiftFloaters scans each column bottom-up and lifts every idle cell that
// has empty space somewhere beneath it. Lifted cells are returned as
// falling bubbles, lowest first within each column, and their board cells
// become Dead. Visited flags left by the chain scan are cleared on the way.
func (g *Grid) LiftFloaters() []Cell {
	var lifted []Cell
	for col := range Columns {
		empty := false
		for row := Rows - 1; row >= 0; row-- {
			c := &g[col][row]
			c.Visited = false
			switch c.State {
			case Dead:
				empty = true
			case Idle:
				if !empty {
					continue
				}
				faller := *c
				faller.State = Falling
				faller.Position = GridToPlay(Index{Col: col, Row: row})
				faller.BounceAmount = 0
				faller.BounceDir = 0
				lifted = append(lifted, faller)
				c.State = Dead
			}
		}
	}
	return lifted
}

// GhostRow paints every cell of row as a ghost.
func (g *Grid) GhostRow(row int) {
	if row < 0 || row >= Rows {
		return
	}
	for col := range Columns {
		g[col][row].State = Ghost
	}
}

package grid

import "github.com/kamstrup/intmap"

// BounceSet tracks settled cells that are still playing their settle bounce.
type BounceSet struct {
	cells *intmap.Map[int, Index]
}

// NewBounceSet creates an empty set.
func NewBounceSet() *BounceSet {
	return &BounceSet{cells: intmap.New[int, Index](Columns * Rows)}
}

func key(i Index) int {
	return i.Col*Rows + i.Row
}

// Add starts tracking the cell at i.
func (b *BounceSet) Add(i Index) {
	b.cells.Put(key(i), i)
}

// Len returns the number of cells still bouncing.
func (b *BounceSet) Len() int {
	return b.cells.Len()
}

// Has reports whether the cell at i is still bouncing.
func (b *BounceSet) Has(i Index) bool {
	return b.cells.Has(key(i))
}

// Clear stops tracking every cell.
func (b *BounceSet) Clear() {
	b.cells.Clear()
}

// Step advances every tracked cell by one half-cycle: the cell moves by
// BounceAmount in BounceDir and the direction flips; the amount drops by
// one each time the direction turns back up. Cells whose amount reaches
// zero, or that are no longer idle, are restored to their canonical
// position and dropped from the set.
func (b *BounceSet) Step(g *Grid) {
	var done []int
	b.cells.ForEach(func(k int, i Index) bool {
		c := g.Cell(i)
		if c.State == Idle && c.BounceAmount != 0 {
			c.Position.Y += int(c.BounceAmount) * int(c.BounceDir)
			c.BounceDir = -c.BounceDir
			if c.BounceDir < 0 {
				c.BounceAmount--
			}
		}
		if c.State != Idle || c.BounceAmount == 0 {
			c.Position = GridToPlay(i)
			c.BounceAmount = 0
			c.BounceDir = 0
			done = append(done, k)
		}
		return true
	})
	for _, k := range done {
		b.cells.Del(k)
	}
}

package grid

// Chain is a group of same-colored settled bubbles confirmed for removal.
type Chain struct {
	Color Color
	// Cells lists the members in discovery order; Cells[0] is the seed.
	Cells []Index
}

// Len returns the number of bubbles in the chain.
func (c Chain) Len() int {
	return len(c.Cells)
}

// ChainPoints returns the score for a chain of length n when chains of at
// least threshold bubbles die.
func ChainPoints(n, threshold int) uint32 {
	if n < threshold {
		return 0
	}
	return uint32(n-(threshold-1)) * 100
}

// ScanResult is the outcome of one victim scan.
type ScanResult struct {
	Chains []Chain
	Score  uint32
	// Latch is the seed of the last confirmed chain. Its animation frame
	// tracks when the death animation is over.
	Latch Index
}

// ScanForVictims flood-fills every 4-connected group of same-colored idle
// cells, seeding in row-major order and skipping cells already visited.
// Groups of at least threshold cells are marked Dying with their animation
// reset; smaller groups are left Idle. Visited flags stay set until
// LiftFloaters clears them.
func (g *Grid) ScanForVictims(threshold int) ScanResult {
	var (
		res   ScanResult
		stack []Index
	)

	for seed, cell := range g.All() {
		if cell.Visited || cell.State != Idle {
			continue
		}

		chain := Chain{Color: cell.Color}
		stack = append(stack[:0], seed)
		cell.Visited = true
		cell.State = Dying

		for len(stack) > 0 {
			at := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			chain.Cells = append(chain.Cells, at)

			for _, next := range neighbours(at) {
				c, ok := g.At(next)
				if !ok || c.State != Idle || c.Color != chain.Color {
					continue
				}
				c.Visited = true
				c.State = Dying
				stack = append(stack, next)
			}
		}

		if chain.Len() < threshold {
			for _, i := range chain.Cells {
				g.Cell(i).State = Idle
			}
			continue
		}

		for _, i := range chain.Cells {
			g.Cell(i).AnimationFrame = 0
		}
		res.Chains = append(res.Chains, chain)
		res.Score += ChainPoints(chain.Len(), threshold)
		res.Latch = seed
	}

	return res
}

func neighbours(i Index) [4]Index {
	return [4]Index{
		{Col: i.Col, Row: i.Row - 1},
		{Col: i.Col + 1, Row: i.Row},
		{Col: i.Col, Row: i.Row + 1},
		{Col: i.Col - 1, Row: i.Row},
	}
}

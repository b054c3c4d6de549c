package grid_test

import (
	"fmt"
	"testing"

	"github.com/plus3/superbubble/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(g *grid.Grid, col, row int, color grid.Color) {
	g.Settle(grid.Index{Col: col, Row: row}, color, 0)
}

func TestInit(t *testing.T) {
	g := grid.New()

	for i, c := range g.All() {
		assert.Equal(t, grid.Dead, c.State, "cell %v", i)
		assert.Equal(t, grid.Point{X: i.Col * grid.CellSize, Y: i.Row * grid.CellSize}, c.Position)
		assert.Zero(t, c.AnimationFrame)
		assert.False(t, c.Visited)
	}
	assert.Equal(t, grid.Columns*grid.Rows, g.Count(grid.Dead))
}

func TestInitResetsSettledCells(t *testing.T) {
	g := grid.New()
	place(g, 2, 3, grid.Blue)
	g.Cell(grid.Index{Col: 2, Row: 3}).Visited = true

	g.Init()

	assert.Equal(t, grid.Columns*grid.Rows, g.Count(grid.Dead))
	assert.False(t, g.Cell(grid.Index{Col: 2, Row: 3}).Visited)
}

func TestAt(t *testing.T) {
	g := grid.New()

	_, ok := g.At(grid.Index{Col: -1, Row: 0})
	assert.False(t, ok)
	_, ok = g.At(grid.Index{Col: 0, Row: grid.Rows})
	assert.False(t, ok)

	c, ok := g.At(grid.Index{Col: grid.Columns - 1, Row: grid.Rows - 1})
	require.True(t, ok)
	assert.Equal(t, grid.Dead, c.State)

	assert.Panics(t, func() { g.Cell(grid.Index{Col: grid.Columns, Row: 0}) })
}

func TestGridPlayRoundTrip(t *testing.T) {
	for col := range grid.Columns {
		for row := range grid.Rows {
			i := grid.Index{Col: col, Row: row}
			p := grid.GridToPlay(i)
			assert.Equal(t, grid.Point{X: col * grid.CellSize, Y: row * grid.CellSize}, p)

			back, ok := grid.PlayToGrid(p)
			require.True(t, ok, "index %v", i)
			assert.Equal(t, i, back)
		}
	}
}

func TestPlayToGridRejects(t *testing.T) {
	tests := []grid.Point{
		{X: 1, Y: 0},
		{X: 0, Y: grid.CellSize / 2},
		{X: -grid.CellSize, Y: 0},
		{X: 0, Y: -grid.CellSize},
		{X: (grid.Columns + 1) * grid.CellSize, Y: 0},
		{X: 0, Y: (grid.Rows + 1) * grid.CellSize},
	}

	for _, p := range tests {
		t.Run(fmt.Sprintf("%d,%d", p.X, p.Y), func(t *testing.T) {
			_, ok := grid.PlayToGrid(p)
			assert.False(t, ok)
		})
	}
}

func TestPlayToGridFloor(t *testing.T) {
	i, ok := grid.PlayToGrid(grid.Point{X: 0, Y: grid.Rows * grid.CellSize})
	require.True(t, ok)
	assert.Equal(t, grid.Rows, i.Row)
}

func TestWindowTransforms(t *testing.T) {
	w, ok := grid.PlayToWindow(grid.Point{X: 50, Y: 100})
	require.True(t, ok)
	assert.Equal(t, grid.Point{X: 50 + grid.OriginX, Y: 100 + grid.OriginY}, w)

	p, ok := grid.WindowToPlay(w)
	require.True(t, ok)
	assert.Equal(t, grid.Point{X: 50, Y: 100}, p)

	_, ok = grid.WindowToPlay(grid.Point{X: grid.OriginX - 1, Y: grid.OriginY})
	assert.False(t, ok)
	_, ok = grid.WindowToPlay(grid.Point{X: grid.OriginX, Y: grid.OriginY - 1})
	assert.False(t, ok)
	_, ok = grid.PlayToWindow(grid.Point{X: -1, Y: 0})
	assert.False(t, ok)
}

func TestNearestVerticalGrid(t *testing.T) {
	tests := []struct {
		name string
		p    grid.Point
		n    int
		a, b grid.Index
	}{
		{"aligned", grid.Point{X: 100, Y: 150}, 1, grid.Index{Col: 2, Row: 3}, grid.Index{Col: 2, Row: 3}},
		{"straddling", grid.Point{X: 100, Y: 160}, 2, grid.Index{Col: 2, Row: 3}, grid.Index{Col: 2, Row: 4}},
		{"above board", grid.Point{X: 0, Y: -10}, 2, grid.Index{Col: 0, Row: -1}, grid.Index{Col: 0, Row: 0}},
		{"spawn row", grid.Point{X: 0, Y: -2 * grid.CellSize}, 1, grid.Index{Col: 0, Row: -2}, grid.Index{Col: 0, Row: -2}},
		{"floor", grid.Point{X: 0, Y: grid.Rows * grid.CellSize}, 1, grid.Index{Col: 0, Row: grid.Rows}, grid.Index{Col: 0, Row: grid.Rows}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, a, b := grid.NearestVerticalGrid(tt.p)
			assert.Equal(t, tt.n, n)
			assert.Equal(t, tt.a, a)
			if tt.n == 2 {
				assert.Equal(t, tt.b, b)
			}
		})
	}
}

func TestAdvanceAndClearDying(t *testing.T) {
	g := grid.New()
	place(g, 0, 9, grid.Red)
	place(g, 1, 9, grid.Red)
	g.Cell(grid.Index{Col: 0, Row: 9}).State = grid.Dying

	for range grid.BubbleFrames + 5 {
		g.AdvanceDying()
	}
	assert.Equal(t, uint8(grid.BubbleFrames-1), g.Cell(grid.Index{Col: 0, Row: 9}).AnimationFrame)
	assert.Zero(t, g.Cell(grid.Index{Col: 1, Row: 9}).AnimationFrame)

	assert.Equal(t, 1, g.ClearDying())
	assert.Equal(t, grid.Dead, g.Cell(grid.Index{Col: 0, Row: 9}).State)
	assert.Equal(t, grid.Idle, g.Cell(grid.Index{Col: 1, Row: 9}).State)
}

func TestLiftFloaters(t *testing.T) {
	g := grid.New()
	place(g, 1, 9, grid.Green)
	place(g, 1, 7, grid.Blue)
	g.Cell(grid.Index{Col: 1, Row: 9}).Visited = true

	lifted := g.LiftFloaters()

	require.Len(t, lifted, 1)
	assert.Equal(t, grid.Blue, lifted[0].Color)
	assert.Equal(t, grid.Falling, lifted[0].State)
	assert.Equal(t, grid.GridToPlay(grid.Index{Col: 1, Row: 7}), lifted[0].Position)
	assert.Equal(t, grid.Dead, g.Cell(grid.Index{Col: 1, Row: 7}).State)
	assert.Equal(t, grid.Idle, g.Cell(grid.Index{Col: 1, Row: 9}).State)
	assert.False(t, g.Cell(grid.Index{Col: 1, Row: 9}).Visited)
}

func TestLiftFloatersOrdersBottomUp(t *testing.T) {
	g := grid.New()
	place(g, 3, 5, grid.Red)
	place(g, 3, 4, grid.Yellow)

	lifted := g.LiftFloaters()

	require.Len(t, lifted, 2)
	assert.Equal(t, grid.Red, lifted[0].Color)
	assert.Equal(t, grid.Yellow, lifted[1].Color)
	assert.Equal(t, grid.Columns*grid.Rows, g.Count(grid.Dead))
}

func TestLiftFloatersSupportedColumn(t *testing.T) {
	g := grid.New()
	place(g, 0, 9, grid.Red)
	place(g, 0, 8, grid.Red)

	assert.Empty(t, g.LiftFloaters())
	assert.Equal(t, 2, g.Count(grid.Idle))
}

func TestGhostRow(t *testing.T) {
	g := grid.New()
	g.GhostRow(grid.Rows - 1)
	g.GhostRow(-1)
	g.GhostRow(grid.Rows)

	assert.Equal(t, grid.Columns, g.Count(grid.Ghost))
	for col := range grid.Columns {
		assert.Equal(t, grid.Ghost, g.Cell(grid.Index{Col: col, Row: grid.Rows - 1}).State)
	}
}

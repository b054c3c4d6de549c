package game

import (
	"fmt"

	"github.com/plus3/superbubble/grid"
)

// Orientation is where the buddy bubble sits relative to the main bubble.
type Orientation uint8

const (
	North Orientation = iota
	East
	South
	West
)

func (o Orientation) String() string {
	switch o {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// CW returns the next orientation clockwise.
func (o Orientation) CW() Orientation {
	return (o + 1) % 4
}

// ACW returns the next orientation anticlockwise.
func (o Orientation) ACW() Orientation {
	return (o + 3) % 4
}

// offset is the buddy's position relative to the main bubble.
func (o Orientation) offset() (dx, dy int) {
	switch o {
	case North:
		return 0, -grid.CellSize
	case East:
		return grid.CellSize, 0
	case West:
		return -grid.CellSize, 0
	default:
		return 0, grid.CellSize
	}
}

// pair indexes the player-controlled bubbles in the falling list, which is
// kept bottom-up at spawn.
const (
	buddyIndex = 0
	mainIndex  = 1
)

// canRotate reports whether the buddy may swing around main into to.
func canRotate(g *grid.Grid, main, buddy grid.Point, to Orientation) bool {
	switch to {
	case East:
		return g.CanGoRight(main, buddy)
	case West:
		return g.CanGoLeft(main, buddy)
	case South:
		return g.Fits(main.Add(0, grid.CellSize))
	default:
		return true
	}
}

// applyIntent performs one control intent on the player pair. Illegal moves
// and rotations are ignored. It returns true when the intent was a drop.
func (s *Session) applyIntent(in Intent) bool {
	if len(s.falling) != 2 {
		return false
	}
	buddy := &s.falling[buddyIndex]
	main := &s.falling[mainIndex]

	switch in {
	case Left:
		if s.grid.CanGoLeft(main.Position, buddy.Position) {
			main.Position.X -= grid.CellSize
			buddy.Position.X -= grid.CellSize
		}
	case Right:
		if s.grid.CanGoRight(main.Position, buddy.Position) {
			main.Position.X += grid.CellSize
			buddy.Position.X += grid.CellSize
		}
	case RotateCW, RotateACW:
		to := s.orientation.CW()
		if in == RotateACW {
			to = s.orientation.ACW()
		}
		if canRotate(&s.grid, main.Position, buddy.Position, to) {
			dx, dy := to.offset()
			buddy.Position = main.Position.Add(dx, dy)
			s.orientation = to
		}
	case Drop:
		return true
	}
	return false
}

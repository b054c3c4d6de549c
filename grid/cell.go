package grid

import "fmt"

const (
	Columns  = 5
	Rows     = 10
	CellSize = 50

	// BubbleFrames is the number of animation frames per bubble sprite row.
	BubbleFrames = 10
)

// Color is a bubble color.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
	Yellow
)

// ColorCount is the number of distinct bubble colors.
const ColorCount = 4

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// State is the lifecycle state of a cell or bubble.
type State uint8

const (
	// Dead means no bubble is present.
	Dead State = iota
	// Idle bubbles are settled and part of the static board.
	Idle
	// Falling bubbles are in a session's falling list, not the board.
	Falling
	// Dying bubbles belong to a confirmed chain and are animating out.
	Dying
	// Ghost is the decorative state painted over the board on game over.
	Ghost
)

func (s State) String() string {
	switch s {
	case Dead:
		return "dead"
	case Idle:
		return "idle"
	case Falling:
		return "falling"
	case Dying:
		return "dying"
	case Ghost:
		return "ghost"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Cell is one bubble, settled or falling.
type Cell struct {
	// Position is the top-left corner in play space.
	Position       Point
	Color          Color
	State          State
	AnimationFrame uint8
	// Visited marks cells already absorbed by a chain scan. It is cleared
	// by LiftFloaters.
	Visited      bool
	BounceAmount int8
	BounceDir    int8
}

// Index addresses a cell in grid space.
type Index struct {
	Col, Row int
}

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.Col, i.Row)
}

// Point is a position in play space or window space.
type Point struct {
	X, Y int
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

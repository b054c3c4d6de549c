package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/superbubble/game"
	"github.com/plus3/superbubble/grid"
)

const (
	boardLeft = 2
	boardTop  = 3

	// Each bubble takes two terminal columns to keep cells roughly square.
	cellWidth = 2
)

var bubbleStyles = [grid.ColorCount]tcell.Style{
	grid.Red:    tcell.StyleDefault.Foreground(tcell.ColorRed),
	grid.Green:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
	grid.Blue:   tcell.StyleDefault.Foreground(tcell.ColorBlue),
	grid.Yellow: tcell.StyleDefault.Foreground(tcell.ColorYellow),
}

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	ghostStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	textStyle   = tcell.StyleDefault
)

var stateHints = map[game.State]string{
	game.Menu:         "enter start  h host  j join  q quit",
	game.WaitForPeer:  "waiting for a peer  esc cancel",
	game.Connecting:   "connecting  esc cancel",
	game.GameOver:     "game over  esc menu",
	game.Disconnected: "esc menu",
}

// bubbleRune picks the glyph for a cell. Dying bubbles shrink through three
// glyphs over their animation.
func bubbleRune(c grid.Cell) rune {
	switch c.State {
	case grid.Ghost:
		return '░'
	case grid.Dying:
		switch {
		case c.AnimationFrame < grid.BubbleFrames/3:
			return '●'
		case c.AnimationFrame < 2*grid.BubbleFrames/3:
			return 'o'
		default:
			return '·'
		}
	}
	return '●'
}

func bubbleStyle(c grid.Cell) tcell.Style {
	if c.State == grid.Ghost {
		return ghostStyle
	}
	return bubbleStyles[c.Color%grid.ColorCount]
}

// cellOrigin maps a play-space position to the terminal cell of its upper
// grid row. Bubbles above the board report false.
func cellOrigin(p grid.Point) (x, y int, ok bool) {
	_, upper, _ := grid.NearestVerticalGrid(p)
	if upper.Row < 0 {
		return 0, 0, false
	}
	return boardLeft + 1 + upper.Col*cellWidth, boardTop + upper.Row, true
}

func drawSnapshot(screen tcell.Screen, snap game.Snapshot) {
	drawText(screen, boardLeft, 0, textStyle, fmt.Sprintf("score %d  level %d", snap.Score, snap.Level))
	if snap.Networked {
		drawText(screen, boardLeft, 1, textStyle, fmt.Sprintf("incoming %d", snap.PendingEnemies))
	}

	right := boardLeft + 1 + grid.Columns*cellWidth
	bottom := boardTop + grid.Rows
	for y := boardTop; y < bottom; y++ {
		screen.SetContent(boardLeft, y, '│', nil, borderStyle)
		screen.SetContent(right, y, '│', nil, borderStyle)
	}
	for x := boardLeft; x <= right; x++ {
		screen.SetContent(x, bottom, '─', nil, borderStyle)
	}

	for _, c := range snap.Occupied() {
		drawBubble(screen, c)
	}
	for _, c := range snap.Falling {
		drawBubble(screen, c)
	}

	drawText(screen, right+3, boardTop, textStyle, "next")
	for i, c := range snap.NextColors {
		screen.SetContent(right+4, boardTop+1+i, '●', nil, bubbleStyles[c%grid.ColorCount])
	}

	if hint, ok := stateHints[snap.State]; ok {
		drawText(screen, boardLeft, bottom+1, textStyle, hint)
	}
	if snap.Message != "" {
		drawText(screen, boardLeft, bottom+2, textStyle, snap.Message)
	}
}

func drawBubble(screen tcell.Screen, c grid.Cell) {
	x, y, ok := cellOrigin(c.Position)
	if !ok {
		return
	}
	screen.SetContent(x, y, bubbleRune(c), nil, bubbleStyle(c))
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

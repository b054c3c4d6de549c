package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
	"github.com/plus3/superbubble/grid"
)

var (
	backgroundColor = color.RGBA{24, 24, 32, 255}
	boardColor      = color.RGBA{40, 40, 56, 255}
	borderColor     = color.RGBA{120, 120, 140, 255}
	ghostColor      = color.RGBA{90, 90, 100, 255}

	bubbleColors = [grid.ColorCount]color.RGBA{
		grid.Red:    {230, 70, 70, 255},
		grid.Green:  {80, 200, 100, 255},
		grid.Blue:   {70, 110, 230, 255},
		grid.Yellow: {235, 205, 60, 255},
	}
)

var stateHints = map[game.State]string{
	game.Menu:         "ENTER start   H host   J join   Q quit",
	game.WaitForPeer:  "waiting for a peer...   ESC cancel",
	game.Connecting:   "connecting...   ESC cancel",
	game.GameOver:     "game over   ESC menu",
	game.Disconnected: "ESC menu",
}

type renderer struct {
	popups *ecs.Query[struct{ *game.Popup }]
}

func newRenderer(storage *ecs.Storage) *renderer {
	return &renderer{popups: ecs.NewQuery[struct{ *game.Popup }](storage)}
}

func (r *renderer) Draw(screen *ebiten.Image, snap game.Snapshot) {
	screen.Fill(backgroundColor)

	const w, h = grid.Columns * grid.CellSize, grid.Rows * grid.CellSize
	vector.DrawFilledRect(screen, grid.OriginX, grid.OriginY, w, h, boardColor, false)
	vector.StrokeRect(screen, grid.OriginX, grid.OriginY, w, h, 2, borderColor, false)

	for _, c := range snap.Occupied() {
		drawBubble(screen, c)
	}
	for _, c := range snap.Falling {
		if c.Position.Y+grid.CellSize > 0 {
			drawBubble(screen, c)
		}
	}

	r.drawPopups(screen)
	drawHUD(screen, snap)
}

// drawBubble draws c as a circle. Dying bubbles shrink with their animation
// frame.
func drawBubble(screen *ebiten.Image, c grid.Cell) {
	const half = grid.CellSize / 2
	cx := float32(grid.OriginX + c.Position.X + half)
	cy := float32(grid.OriginY + c.Position.Y + half)
	radius := float32(half - 2)

	var clr color.Color = bubbleColors[c.Color%grid.ColorCount]
	switch c.State {
	case grid.Ghost:
		clr = ghostColor
	case grid.Dying:
		radius *= 1 - float32(c.AnimationFrame)/grid.BubbleFrames
	}
	vector.DrawFilledCircle(screen, cx, cy, radius, clr, true)
}

func (r *renderer) drawPopups(screen *ebiten.Image) {
	r.popups.Execute()
	for p := range r.popups.Values() {
		rise := int(p.Popup.Age / game.PopupSeconds * grid.CellSize)
		x := grid.OriginX + p.Popup.Position.X - 12
		y := grid.OriginY + p.Popup.Position.Y - rise
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("+%d", p.Popup.Points), x, y)
	}
}

func drawHUD(screen *ebiten.Image, snap game.Snapshot) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", snap.Score), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LEVEL %d", snap.Level), 10, 26)

	const previewX = grid.OriginX + grid.Columns*grid.CellSize + 30
	ebitenutil.DebugPrintAt(screen, "NEXT", previewX-10, grid.OriginY)
	for i, c := range snap.NextColors {
		vector.DrawFilledCircle(screen, previewX+10, float32(grid.OriginY+30+i*30), 12, bubbleColors[c%grid.ColorCount], true)
	}
	if snap.Networked {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("INCOMING %d", snap.PendingEnemies), previewX-10, grid.OriginY+100)
	}

	footer := grid.OriginY + grid.Rows*grid.CellSize + 12
	if hint, ok := stateHints[snap.State]; ok {
		ebitenutil.DebugPrintAt(screen, hint, 10, footer)
	}
	if snap.Message != "" {
		ebitenutil.DebugPrintAt(screen, snap.Message, 10, footer+16)
	}
}

package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
	"github.com/plus3/superbubble/grid"
)

const cellPixels = 16

var bubbleColors = [grid.ColorCount]imgui.Vec4{
	grid.Red:    imgui.NewVec4(0.9, 0.2, 0.2, 1),
	grid.Green:  imgui.NewVec4(0.2, 0.8, 0.3, 1),
	grid.Blue:   imgui.NewVec4(0.2, 0.4, 0.9, 1),
	grid.Yellow: imgui.NewVec4(0.9, 0.8, 0.2, 1),
}

// cellColor is the fill for a cell in the board view. Dying cells fade with
// their animation frame; dead cells are not drawn.
func cellColor(c grid.Cell) (imgui.Vec4, bool) {
	switch c.State {
	case grid.Dead:
		return imgui.Vec4{}, false
	case grid.Ghost:
		return imgui.NewVec4(0.5, 0.5, 0.5, 0.4), true
	}
	col := bubbleColors[c.Color%grid.ColorCount]
	if c.State == grid.Dying {
		col.W = 1 - float32(c.AnimationFrame)/grid.BubbleFrames
	}
	return col, true
}

// SessionWindow shows the session state machine, the board and the falling
// bubbles, and can push session commands.
type SessionWindow struct {
	session ecs.Singleton[game.Session]
	inbox   ecs.Singleton[game.Inbox]
}

func NewSessionWindow(storage *ecs.Storage) *SessionWindow {
	w := &SessionWindow{}
	w.session.Init(storage)
	w.inbox.Init(storage)
	return w
}

func (w *SessionWindow) Render() {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	session := w.session.Get()
	if session == nil {
		imgui.Text("no session")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("State: %s", session.State()))
	imgui.Text(fmt.Sprintf("Score: %d  Level: %d  Fall speed: %d", session.Score(), session.Level(), session.FallSpeed()))
	next := session.NextColors()
	imgui.Text(fmt.Sprintf("Next: %s/%s  Orientation: %s", next[0], next[1], session.Orientation()))
	if session.Networked() {
		imgui.Text(fmt.Sprintf("Pending enemy bubbles: %d", session.PendingEnemies()))
	}
	if msg := session.Message(); msg != "" {
		imgui.Text(msg)
	}

	w.renderCommands()
	imgui.Separator()
	renderBoard(session)

	if imgui.TreeNodeStr("Falling") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("FallingTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Position")
			imgui.TableSetupColumn("Color")
			imgui.TableSetupColumn("State")
			imgui.TableHeadersRow()
			for _, c := range session.Falling() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d,%d", c.Position.X, c.Position.Y))
				imgui.TableNextColumn()
				imgui.Text(c.Color.String())
				imgui.TableNextColumn()
				imgui.Text(c.State.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (w *SessionWindow) renderCommands() {
	inbox := w.inbox.Get()
	if inbox == nil {
		return
	}
	for i, cmd := range []game.Command{game.Start, game.Host, game.Join, game.Back} {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(cmd.String()) {
			inbox.Push(cmd)
		}
	}
}

// renderBoard draws the board and the falling bubbles as filled squares.
func renderBoard(session *game.Session) {
	drawList := imgui.WindowDrawList()
	origin := imgui.CursorScreenPos()
	scale := float32(cellPixels) / grid.CellSize

	// Two spare rows above the board hold a freshly spawned pair.
	top := origin.Y + 2*cellPixels
	border := imgui.ColorU32Vec4(imgui.NewVec4(0.4, 0.4, 0.4, 1))
	drawList.AddRectFilled(
		imgui.NewVec2(origin.X, top),
		imgui.NewVec2(origin.X+grid.Columns*cellPixels, top+grid.Rows*cellPixels),
		imgui.ColorU32Vec4(imgui.NewVec4(0.1, 0.1, 0.1, 1)),
	)

	draw := func(c grid.Cell) {
		col, ok := cellColor(c)
		if !ok {
			return
		}
		x := origin.X + float32(c.Position.X)*scale
		y := top + float32(c.Position.Y)*scale
		drawList.AddRectFilled(imgui.NewVec2(x+1, y+1), imgui.NewVec2(x+cellPixels-1, y+cellPixels-1), imgui.ColorU32Vec4(col))
	}
	for _, c := range session.Grid().All() {
		draw(*c)
	}
	for _, c := range session.Falling() {
		draw(c)
	}
	drawList.AddRectFilled(
		imgui.NewVec2(origin.X, top+grid.Rows*cellPixels),
		imgui.NewVec2(origin.X+grid.Columns*cellPixels, top+grid.Rows*cellPixels+2),
		border,
	)

	imgui.Dummy(imgui.NewVec2(grid.Columns*cellPixels, (grid.Rows+2)*cellPixels+2))
}

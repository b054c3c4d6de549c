package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	debugui_ebiten "github.com/plus3/superbubble/debugui/ebiten"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
)

// Game implements ebiten.Game. Update runs one scheduler frame; Draw renders
// the session and, in debug mode, the ImGui overlay.
type Game struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	session   *ecs.Singleton[game.Session]
	imgui     *ecs.Singleton[debugui_ebiten.ImguiBackend]
	renderer  *renderer

	width, height int
}

func (g *Game) Update() error {
	if g.imgui != nil {
		g.imgui.Get().BeginFrame()
	}

	g.scheduler.Once(1.0 / float64(ebiten.TPS()))

	if g.imgui != nil {
		g.imgui.Get().EndFrame()
	}

	if session := g.session.Get(); session != nil && session.QuitRequested() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if session := g.session.Get(); session != nil {
		g.renderer.Draw(screen, session.Snapshot())
	}

	if g.imgui != nil {
		g.imgui.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Get().Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return g.width, g.height
}

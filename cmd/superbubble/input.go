package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/superbubble/debugui"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
)

var intentKeys = []struct {
	key    ebiten.Key
	intent game.Intent
}{
	{ebiten.KeyArrowLeft, game.Left},
	{ebiten.KeyArrowRight, game.Right},
	{ebiten.KeyArrowUp, game.RotateCW},
	{ebiten.KeyX, game.RotateCW},
	{ebiten.KeyZ, game.RotateACW},
	{ebiten.KeyArrowDown, game.Drop},
	{ebiten.KeySpace, game.Drop},
}

var commandKeys = []struct {
	key     ebiten.Key
	command game.Command
}{
	{ebiten.KeyEnter, game.Start},
	{ebiten.KeyH, game.Host},
	{ebiten.KeyJ, game.Join},
	{ebiten.KeyEscape, game.Back},
	{ebiten.KeyQ, game.Quit},
}

// KeyboardSystem turns key presses into session intents and commands. Keys
// are ignored while the ImGui overlay has keyboard focus.
type KeyboardSystem struct {
	Session ecs.Singleton[game.Session]
	Inbox   ecs.Singleton[game.Inbox]
	Input   ecs.Singleton[debugui.ImguiInputState]
}

func (s *KeyboardSystem) Execute(frame *ecs.UpdateFrame) {
	if input := s.Input.Get(); input != nil && input.WantCaptureKeyboard {
		return
	}

	if session := s.Session.Get(); session != nil {
		for _, k := range intentKeys {
			if inpututil.IsKeyJustPressed(k.key) {
				session.Press(k.intent)
			}
		}
	}

	if inbox := s.Inbox.Get(); inbox != nil {
		for _, k := range commandKeys {
			if inpututil.IsKeyJustPressed(k.key) {
				inbox.Push(k.command)
			}
		}
	}
}

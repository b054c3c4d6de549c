package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
)

var intentKeys = map[tcell.Key]game.Intent{
	tcell.KeyLeft:  game.Left,
	tcell.KeyRight: game.Right,
	tcell.KeyUp:    game.RotateCW,
	tcell.KeyDown:  game.Drop,
}

var intentRunes = map[rune]game.Intent{
	'x': game.RotateCW,
	'z': game.RotateACW,
	' ': game.Drop,
}

var commandKeys = map[tcell.Key]game.Command{
	tcell.KeyEnter:  game.Start,
	tcell.KeyEscape: game.Back,
	tcell.KeyCtrlC:  game.Quit,
}

var commandRunes = map[rune]game.Command{
	'h': game.Host,
	'j': game.Join,
	'q': game.Quit,
}

// KeySystem drains terminal key events queued since the previous frame
// and turns them into intents and commands.
type KeySystem struct {
	Session ecs.Singleton[game.Session]
	Inbox   ecs.Singleton[game.Inbox]

	Events <-chan tcell.Event
}

func (s *KeySystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	inbox := s.Inbox.Get()
	if session == nil || inbox == nil {
		return
	}

	for {
		select {
		case ev := <-s.Events:
			if key, ok := ev.(*tcell.EventKey); ok {
				handleKey(key, session, inbox)
			}
		default:
			return
		}
	}
}

func handleKey(ev *tcell.EventKey, session *game.Session, inbox *game.Inbox) {
	if ev.Key() == tcell.KeyRune {
		if intent, ok := intentRunes[ev.Rune()]; ok {
			session.Press(intent)
		} else if cmd, ok := commandRunes[ev.Rune()]; ok {
			inbox.Push(cmd)
		}
		return
	}

	if intent, ok := intentKeys[ev.Key()]; ok {
		session.Press(intent)
	} else if cmd, ok := commandKeys[ev.Key()]; ok {
		inbox.Push(cmd)
	}
}

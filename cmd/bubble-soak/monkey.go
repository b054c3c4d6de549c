package main

import (
	"math/rand/v2"

	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
)

// Tally accumulates what one soaked session has done.
type Tally struct {
	Frames    int64
	Games     int64
	Chains    int64
	BestScore uint32
}

var monkeyIntents = []game.Intent{
	game.Left,
	game.Right,
	game.RotateCW,
	game.RotateACW,
	game.Drop,
}

// MonkeySystem plays a session with random inputs. It starts a game from
// the menu, returns to the menu after a game over, and counts fresh chain
// popups. It must run before the game systems.
type MonkeySystem struct {
	Session ecs.Singleton[game.Session]
	Inbox   ecs.Singleton[game.Inbox]
	Tally   ecs.Singleton[Tally]
	Popups  ecs.Query[struct{ *game.Popup }]

	// PressChance is the per-frame probability of a random intent.
	PressChance float64
	Rand        *rand.Rand

	last game.State
}

func (s *MonkeySystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	inbox := s.Inbox.Get()
	tally := s.Tally.Get()
	if session == nil || inbox == nil || tally == nil {
		return
	}

	tally.Frames++
	for p := range s.Popups.Values() {
		if p.Popup.Age == 0 {
			tally.Chains++
		}
	}

	state := session.State()
	if state == game.GameOver && s.last != game.GameOver {
		tally.Games++
		tally.BestScore = max(tally.BestScore, session.Score())
	}
	s.last = state

	switch state {
	case game.Menu:
		inbox.Push(game.Start)
	case game.GameOver, game.Disconnected:
		inbox.Push(game.Back)
	case game.PlayerControl:
		if s.Rand.Float64() < s.PressChance {
			session.Press(monkeyIntents[s.Rand.IntN(len(monkeyIntents))])
		}
	}
}

// soakWorld is one independent session with its own scheduler.
type soakWorld struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	session   *ecs.Singleton[game.Session]
	tally     *ecs.Singleton[Tally]
}

func newSoakWorld(cfg game.Config, pressChance float64) *soakWorld {
	storage := game.NewWorld(cfg)
	ecs.NewSingleton[Tally](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MonkeySystem{
		PressChance: pressChance,
		Rand:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	})
	game.RegisterSystems(scheduler, nil, nil)

	return &soakWorld{
		storage:   storage,
		scheduler: scheduler,
		session:   ecs.NewSingleton[game.Session](storage),
		tally:     ecs.NewSingleton[Tally](storage),
	}
}

// step runs one frame of simulated time.
func (w *soakWorld) step() {
	w.scheduler.Once(w.session.Get().Config().TargetFrameSeconds)
}

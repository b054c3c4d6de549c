// Command superbubble-term runs the game in a terminal.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
	"github.com/plus3/superbubble/netplay"
)

func main() {
	configPath := flag.String("config", "", "TOML file overriding the default game tunables.")
	host := flag.Bool("host", false, "Start hosting a networked game immediately.")
	join := flag.String("join", "", "Address of a hosting peer to join.")
	addr := flag.String("addr", "", "Listen address when hosting (default :2468).")
	seed := flag.Uint64("seed", 0, "Random seed; 0 picks one.")
	logPath := flag.String("log", "", "Write log output to this file instead of discarding it.")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// The terminal owns stdout and stderr while the game runs.
	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialise screen: %v", err)
	}
	defer screen.Fini()

	newPeer := func() game.Peer {
		netCfg := netplay.DefaultConfig()
		if *join != "" {
			netCfg = netplay.JoinConfig(*join)
		}
		if *addr != "" {
			netCfg.Addr = *addr
		}
		return netplay.NewLink(netCfg, logger)
	}

	events := make(chan tcell.Event, 100)
	storage := game.NewWorld(cfg)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&KeySystem{Events: events})
	game.RegisterSystems(scheduler, newPeer, logger)

	inbox := ecs.NewSingleton[game.Inbox](storage).Get()
	switch {
	case *host:
		inbox.Push(game.Host)
	case *join != "":
		inbox.Push(game.Join)
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	run(screen, scheduler, ecs.NewSingleton[game.Session](storage))
}

func run(screen tcell.Screen, scheduler *ecs.Scheduler, session *ecs.Singleton[game.Session]) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		scheduler.Once(now.Sub(last).Seconds())
		last = now

		s := session.Get()
		if s == nil || s.QuitRequested() {
			return
		}
		screen.Clear()
		drawSnapshot(screen, s.Snapshot())
		screen.Show()
	}
}

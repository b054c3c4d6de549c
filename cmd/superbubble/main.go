// Command superbubble runs the game in a desktop window.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/superbubble/debugui"
	debugui_ebiten "github.com/plus3/superbubble/debugui/ebiten"
	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/game"
	"github.com/plus3/superbubble/netplay"
)

const (
	ScreenWidth  = 480
	ScreenHeight = 600

	DebugWidth  = 1280
	DebugHeight = 720
)

func main() {
	configPath := flag.String("config", "", "TOML file overriding the default game tunables.")
	host := flag.Bool("host", false, "Start hosting a networked game immediately.")
	join := flag.String("join", "", "Address of a hosting peer to join.")
	addr := flag.String("addr", "", "Listen address when hosting (default :2468).")
	seed := flag.Uint64("seed", 0, "Random seed; 0 picks one.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui inspector windows.")
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

	logger := log.Default()
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

	storage := game.NewWorld(cfg, debugui.RegisterComponents)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&KeyboardSystem{})
	game.RegisterSystems(scheduler, newPeer, logger)

	g := &Game{
		storage:   storage,
		scheduler: scheduler,
		session:   ecs.NewSingleton[game.Session](storage),
		renderer:  newRenderer(storage),
		width:     ScreenWidth,
		height:    ScreenHeight,
	}

	if *debug {
		backend := debugui_ebiten.NewImguiBackend("superbubble", DebugWidth, DebugHeight)
		g.imgui = ecs.NewSingleton(storage, backend)
		g.width, g.height = DebugWidth, DebugHeight
		debugui.Spawn(storage, scheduler)
		scheduler.Register(&debugui.ImguiSystem{})
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("superbubble")
	}

	inbox := ecs.NewSingleton[game.Inbox](storage).Get()
	switch {
	case *host:
		inbox.Push(game.Host)
	case *join != "":
		inbox.Push(game.Join)
	}

	log.Println("Starting superbubble...")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game stopped: %v", err)
	}
}

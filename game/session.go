package game

import (
	"math/rand/v2"

	"github.com/plus3/superbubble/grid"
	"github.com/plus3/superbubble/netplay"
)

// spawnRow is the grid row of the main bubble of a new pair, above the board.
const spawnRow = -2

// enemyRow is the grid row garbage bubbles from the peer appear at.
const enemyRow = -1

// maxPendingEnemies caps the incoming garbage counter.
const maxPendingEnemies = 1<<16 - 1

// Tick is everything that reaches the state machine in one frame.
type Tick struct {
	// Elapsed is the wall-clock time in seconds since the previous tick.
	Elapsed float64
	Command Command
	Net     netplay.Event
}

// ChainEvent describes one chain confirmed by a victim scan.
type ChainEvent struct {
	Color  grid.Color
	Cells  []grid.Index
	Points uint32
}

// Session is one player's game: the board, the falling bubbles and the state
// machine that moves between them. It is not safe for concurrent use; hosts
// drive it from a single loop and render from Snapshot or the read accessors
// after Step returns.
type Session struct {
	cfg Config
	rng *rand.Rand

	state   State
	grid    grid.Grid
	falling []grid.Cell
	bounces *grid.BounceSet

	controls    Controls
	orientation Orientation
	nextColors  [2]grid.Color
	fallSpeed   int
	score       uint32

	deathLatch grid.Index
	deathClock float64
	ghostRow   int

	networked      bool
	pendingEnemies int
	enemiesDropped bool
	outgoing       int

	chains  []ChainEvent
	message string
	quit    bool
}

// NewSession returns a session in the Menu state. cfg is assumed valid; see
// Config.Validate.
func NewSession(cfg Config) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Session{
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		state:   Menu,
		falling: make([]grid.Cell, 0, grid.Columns*grid.Rows),
		bounces: grid.NewBounceSet(),
	}
	s.newGame()
	return s
}

// newGame clears everything a previous game left behind.
func (s *Session) newGame() {
	s.grid.Init()
	s.falling = s.falling[:0]
	s.bounces.Clear()
	s.controls.Reset()
	s.orientation = South
	s.nextColors = s.randomColors()
	s.fallSpeed = s.cfg.FallSpeed
	s.score = 0
	s.deathClock = 0
	s.ghostRow = grid.Rows - 1
	s.pendingEnemies = 0
	s.enemiesDropped = false
	s.outgoing = 0
	s.chains = nil
	s.message = ""
}

func (s *Session) randomColor() grid.Color {
	return grid.Color(s.rng.IntN(grid.ColorCount))
}

func (s *Session) randomColors() [2]grid.Color {
	return [2]grid.Color{s.randomColor(), s.randomColor()}
}

// Step merges the tick's network event and command into the session and
// runs the handler of the resulting state once.
func (s *Session) Step(t Tick) State {
	if t.Command == Quit {
		s.quit = true
	}
	s.merge(t.Net)

	switch s.state {
	case Menu:
		s.state = s.menu(t)
	case WaitForPeer, Connecting:
		s.state = s.waitForPeer(t)
	case BubbleSpawn:
		s.state = s.spawnBubble()
	case PlayerControl:
		s.state = s.controlPlayer(t)
	case DropEnemyBubbles:
		s.state = s.dropEnemyBubbles()
	case Gravity:
		s.state = s.gravity(t)
	case ScanForVictims:
		s.state = s.scanForVictims()
	case AnimateDeaths:
		s.state = s.animateDeaths(t)
	case ScanForFloaters:
		s.state = s.scanForFloaters()
	case GameOver:
		s.state = s.gameOver(t)
	case Disconnected:
		s.state = s.disconnected(t)
	}
	return s.state
}

// merge applies a network event before the state handler runs.
func (s *Session) merge(ev netplay.Event) {
	switch ev.Type {
	case netplay.Connected:
		if s.state.Waiting() {
			s.newGame()
			s.networked = true
			s.state = BubbleSpawn
		}
	case netplay.Disconnected:
		if s.state.Waiting() || (s.networked && s.state.Playing()) {
			s.networked = false
			s.falling = s.falling[:0]
			s.message = "connection lost"
			s.state = Disconnected
		}
	case netplay.NumBubbles:
		if s.networked {
			s.pendingEnemies = min(s.pendingEnemies+int(ev.NumBubbles), maxPendingEnemies)
		}
	}
}

func (s *Session) toMenu() State {
	s.networked = false
	s.falling = s.falling[:0]
	return Menu
}

func (s *Session) menu(t Tick) State {
	switch t.Command {
	case Start:
		s.newGame()
		s.networked = false
		return BubbleSpawn
	case Host:
		s.message = ""
		return WaitForPeer
	case Join:
		s.message = ""
		return Connecting
	}
	return Menu
}

func (s *Session) waitForPeer(t Tick) State {
	if t.Command == Back {
		return s.toMenu()
	}
	return s.state
}

func (s *Session) disconnected(t Tick) State {
	if t.Command == Back {
		return s.toMenu()
	}
	return Disconnected
}

func (s *Session) spawnBubble() State {
	col := s.rng.IntN(grid.Columns)
	main := grid.Cell{
		Position: grid.GridToPlay(grid.Index{Col: col, Row: spawnRow}),
		Color:    s.nextColors[0],
		State:    grid.Falling,
	}
	buddy := grid.Cell{
		Position: grid.GridToPlay(grid.Index{Col: col, Row: spawnRow + 1}),
		Color:    s.nextColors[1],
		State:    grid.Falling,
	}
	s.nextColors = s.randomColors()

	s.falling = append(s.falling[:0], buddy, main)
	s.orientation = South
	s.fallSpeed = s.levelFallSpeed()
	s.enemiesDropped = false
	s.controls.Reset()
	return PlayerControl
}

func (s *Session) controlPlayer(t Tick) State {
	if in, ok := s.controls.Take(); ok && s.applyIntent(in) {
		return Gravity
	}

	next := s.applyGravity(t.Elapsed)
	if next == Gravity && len(s.falling) == 2 {
		return PlayerControl
	}
	return next
}

func (s *Session) gravity(t Tick) State {
	s.fallSpeed = s.cfg.FastFallSpeed
	return s.applyGravity(t.Elapsed)
}

func (s *Session) scanForVictims() State {
	res := s.grid.ScanForVictims(s.cfg.ChainLength)
	if len(res.Chains) == 0 {
		return s.endTurn()
	}

	s.score += res.Score
	for _, c := range res.Chains {
		s.chains = append(s.chains, ChainEvent{
			Color:  c.Color,
			Cells:  c.Cells,
			Points: grid.ChainPoints(c.Len(), s.cfg.ChainLength),
		})
		if s.networked {
			s.outgoing += c.Len() - (s.cfg.ChainLength - 1)
		}
	}
	s.deathLatch = res.Latch
	s.deathClock = 0
	return AnimateDeaths
}

func (s *Session) animateDeaths(t Tick) State {
	s.deathClock += t.Elapsed
	for n := 0; s.deathClock >= s.cfg.DeathFrameSeconds && n < grid.BubbleFrames; n++ {
		s.deathClock -= s.cfg.DeathFrameSeconds
		s.grid.AdvanceDying()
	}

	if s.grid.Cell(s.deathLatch).AnimationFrame < grid.BubbleFrames-1 {
		return AnimateDeaths
	}
	s.grid.ClearDying()
	return ScanForFloaters
}

func (s *Session) scanForFloaters() State {
	lifted := s.grid.LiftFloaters()
	if len(lifted) == 0 {
		return s.endTurn()
	}
	s.falling = append(s.falling, lifted...)
	return Gravity
}

// endTurn picks what follows a fully resolved board: one batch of the
// peer's garbage per turn, then the next pair.
func (s *Session) endTurn() State {
	if s.networked && s.pendingEnemies > 0 && !s.enemiesDropped {
		return DropEnemyBubbles
	}
	return BubbleSpawn
}

func (s *Session) dropEnemyBubbles() State {
	n := min(s.pendingEnemies, grid.Columns)
	for _, col := range s.rng.Perm(grid.Columns)[:n] {
		s.falling = append(s.falling, grid.Cell{
			Position: grid.GridToPlay(grid.Index{Col: col, Row: enemyRow}),
			Color:    s.randomColor(),
			State:    grid.Falling,
		})
	}
	s.pendingEnemies -= n
	s.enemiesDropped = true
	return Gravity
}

func (s *Session) gameOver(t Tick) State {
	if t.Command == Back {
		return s.toMenu()
	}
	if s.ghostRow >= 0 {
		s.grid.GhostRow(s.ghostRow)
		s.ghostRow--
	}
	return GameOver
}

func (s *Session) levelFallSpeed() int {
	speed := s.cfg.FallSpeed + (s.Level()-1)*s.cfg.LevelFallStep
	return min(speed, s.cfg.FastFallSpeed)
}

// Press records player intents for the next PlayerControl tick. Intents
// pressed outside PlayerControl are dropped when the next pair spawns.
func (s *Session) Press(i Intent) {
	s.controls.Press(i)
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Grid returns the board. Callers must not modify it.
func (s *Session) Grid() *grid.Grid { return &s.grid }

// Falling returns the falling bubbles, bottom-up for a fresh pair. The slice
// is only valid until the next Step.
func (s *Session) Falling() []grid.Cell { return s.falling }

// Orientation returns where the buddy bubble sits around the main bubble.
func (s *Session) Orientation() Orientation { return s.orientation }

// NextColors returns the colors of the next main and buddy bubble.
func (s *Session) NextColors() [2]grid.Color { return s.nextColors }

func (s *Session) Score() uint32 { return s.score }

// Level is 1 plus one per LevelScore points.
func (s *Session) Level() int {
	return 1 + int(s.score/s.cfg.LevelScore)
}

// FallSpeed is the current fall speed in play-space units per target frame.
func (s *Session) FallSpeed() int { return s.fallSpeed }

// Networked reports whether the running game has a peer.
func (s *Session) Networked() bool { return s.networked }

// PendingEnemies is the number of peer garbage bubbles still to drop.
func (s *Session) PendingEnemies() int { return s.pendingEnemies }

// Message is a user-facing status line, such as why a game ended.
func (s *Session) Message() string { return s.message }

// QuitRequested reports whether a Quit command has been seen.
func (s *Session) QuitRequested() bool { return s.quit }

func (s *Session) Config() Config { return s.cfg }

// TakeOutgoing drains up to 255 garbage bubbles owed to the peer.
func (s *Session) TakeOutgoing() uint8 {
	n := min(s.outgoing, 255)
	s.outgoing -= n
	return uint8(n)
}

// TakeChains returns the chains confirmed since the last call.
func (s *Session) TakeChains() []ChainEvent {
	chains := s.chains
	s.chains = nil
	return chains
}

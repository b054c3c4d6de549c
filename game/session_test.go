package game

import (
	"testing"

	"github.com/plus3/superbubble/grid"
	"github.com/plus3/superbubble/netplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	require.NoError(t, cfg.Validate())
	return NewSession(cfg)
}

// stepUntil steps s with tick until it reaches want, failing after limit
// steps.
func stepUntil(t *testing.T, s *Session, tick Tick, want State, limit int) {
	t.Helper()
	for range limit {
		if s.Step(tick) == want {
			return
		}
	}
	t.Fatalf("state %s after %d steps, want %s", s.State(), limit, want)
}

func faller(col, row, dy int, color grid.Color) grid.Cell {
	return grid.Cell{
		Position: grid.GridToPlay(grid.Index{Col: col, Row: row}).Add(0, dy),
		Color:    color,
		State:    grid.Falling,
	}
}

// pairAt places a player pair with main at (col,row) and the buddy around
// it in orientation o.
func pairAt(s *Session, col, row int, o Orientation) {
	main := faller(col, row, 0, grid.Red)
	dx, dy := o.offset()
	buddy := main
	buddy.Position = main.Position.Add(dx, dy)
	buddy.Color = grid.Blue
	s.falling = append(s.falling[:0], buddy, main)
	s.orientation = o
	s.state = PlayerControl
}

func TestNewSessionStartsInMenu(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, Menu, s.State())
	assert.Equal(t, grid.Columns*grid.Rows, s.Grid().Count(grid.Dead))
	assert.Empty(t, s.Falling())

	assert.Equal(t, Menu, s.Step(Tick{Elapsed: frame}))
}

func TestSpawn(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, BubbleSpawn, s.Step(Tick{Command: Start}))

	next := s.NextColors()
	require.Equal(t, PlayerControl, s.Step(Tick{}))

	falling := s.Falling()
	require.Len(t, falling, 2)
	buddy, main := falling[0], falling[1]

	assert.Equal(t, grid.Falling, buddy.State)
	assert.Equal(t, grid.Falling, main.State)
	assert.Equal(t, next[0], main.Color)
	assert.Equal(t, next[1], buddy.Color)
	assert.Equal(t, main.Position.X, buddy.Position.X)
	assert.Equal(t, spawnRow*grid.CellSize, main.Position.Y)
	assert.Equal(t, main.Position.Y+grid.CellSize, buddy.Position.Y)
	assert.Equal(t, South, s.Orientation())
	assert.Equal(t, s.cfg.FallSpeed, s.FallSpeed())

	for _, c := range s.NextColors() {
		assert.Less(t, int(c), grid.ColorCount)
	}
}

func TestSpawnClearsFallingList(t *testing.T) {
	s := newTestSession(t)
	s.falling = append(s.falling, faller(0, 3, 0, grid.Green))
	s.state = BubbleSpawn

	s.Step(Tick{})
	assert.Len(t, s.Falling(), 2)
}

func TestPlayerPairFallsWithoutSettling(t *testing.T) {
	s := newTestSession(t)
	s.Step(Tick{Command: Start})
	s.Step(Tick{})

	y := s.Falling()[1].Position.Y
	assert.Equal(t, PlayerControl, s.Step(Tick{Elapsed: frame}))
	assert.Equal(t, y+s.cfg.FallSpeed, s.Falling()[1].Position.Y)
}

func TestLateralMoves(t *testing.T) {
	s := newTestSession(t)
	pairAt(s, 0, 4, South)

	s.Press(Left)
	s.Step(Tick{})
	assert.Equal(t, 0, s.Falling()[mainIndex].Position.X, "wall blocks")
	assert.Zero(t, s.controls.Pending(), "blocked move still consumed")

	s.Press(Right)
	s.Step(Tick{})
	assert.Equal(t, grid.CellSize, s.Falling()[mainIndex].Position.X)
	assert.Equal(t, grid.CellSize, s.Falling()[buddyIndex].Position.X)

	s.grid.Settle(grid.Index{Col: 2, Row: 5}, grid.Green, 0)
	s.Press(Right)
	s.Step(Tick{})
	assert.Equal(t, grid.CellSize, s.Falling()[mainIndex].Position.X, "settled bubble beside the buddy blocks")
}

func TestOneIntentPerTick(t *testing.T) {
	s := newTestSession(t)
	pairAt(s, 2, 4, South)

	s.Press(Left | Right)
	s.Step(Tick{})
	assert.Equal(t, grid.CellSize, s.Falling()[mainIndex].Position.X)
	assert.Equal(t, Right, s.controls.Pending())

	s.Step(Tick{})
	assert.Equal(t, 2*grid.CellSize, s.Falling()[mainIndex].Position.X)
	assert.Zero(t, s.controls.Pending())
}

func TestRotationCycle(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   []Orientation
	}{
		{"clockwise", RotateCW, []Orientation{West, North, East, South}},
		{"anticlockwise", RotateACW, []Orientation{East, North, West, South}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			pairAt(s, 2, 4, South)
			main := s.Falling()[mainIndex].Position

			for _, want := range tt.want {
				s.Press(tt.intent)
				s.Step(Tick{})
				require.Equal(t, want, s.Orientation())

				dx, dy := want.offset()
				assert.Equal(t, main, s.Falling()[mainIndex].Position)
				assert.Equal(t, main.Add(dx, dy), s.Falling()[buddyIndex].Position)
			}
		})
	}
}

func TestRotationBlocked(t *testing.T) {
	tests := []struct {
		name     string
		from     Orientation
		intent   Intent
		col, row int
		blocker  grid.Index
	}{
		{"north to east", North, RotateCW, 2, 5, grid.Index{Col: 3, Row: 5}},
		{"north to west", North, RotateACW, 2, 5, grid.Index{Col: 1, Row: 5}},
		{"south to west", South, RotateCW, 2, 5, grid.Index{Col: 1, Row: 6}},
		{"east to south", East, RotateCW, 2, 8, grid.Index{Col: 2, Row: 9}},
		{"west to south", West, RotateACW, 2, 8, grid.Index{Col: 2, Row: 9}},
		{"east wall", North, RotateCW, grid.Columns - 1, 5, grid.Index{Col: 0, Row: 9}},
		{"west wall", South, RotateCW, 0, 5, grid.Index{Col: 4, Row: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			pairAt(s, tt.col, tt.row, tt.from)
			s.grid.Settle(tt.blocker, grid.Yellow, 0)
			buddy := s.Falling()[buddyIndex].Position

			s.Press(tt.intent)
			s.Step(Tick{})

			assert.Equal(t, tt.from, s.Orientation())
			assert.Equal(t, buddy, s.Falling()[buddyIndex].Position)
			assert.Zero(t, s.controls.Pending())
		})
	}
}

func TestRotateToSouthAtFloor(t *testing.T) {
	s := newTestSession(t)
	pairAt(s, 2, grid.Rows-1, East)

	s.Press(RotateCW)
	s.Step(Tick{})
	assert.Equal(t, East, s.Orientation())
}

func TestDropHandsOverToGravity(t *testing.T) {
	s := newTestSession(t)
	pairAt(s, 2, 0, South)
	y := s.Falling()[mainIndex].Position.Y

	s.Press(Drop)
	require.Equal(t, Gravity, s.Step(Tick{Elapsed: frame}))
	assert.Equal(t, y, s.Falling()[mainIndex].Position.Y, "drop tick does not fall")

	s.Step(Tick{Elapsed: frame})
	assert.Equal(t, s.cfg.FastFallSpeed, s.FallSpeed())
	assert.Equal(t, y+s.cfg.FastFallSpeed, s.Falling()[mainIndex].Position.Y)
}

func TestHalfSettledPairLeavesPlayerControl(t *testing.T) {
	s := newTestSession(t)
	pairAt(s, 1, 8, East)
	s.grid.Settle(grid.Index{Col: 2, Row: 9}, grid.Green, 0)

	assert.Equal(t, Gravity, s.Step(Tick{Elapsed: frame}))
	require.Len(t, s.Falling(), 1)
	assert.Equal(t, grid.Red, s.Falling()[0].Color)
	assert.True(t, s.grid.IsIdle(grid.Index{Col: 2, Row: 8}))
}

func TestGravitySettlesOnFloor(t *testing.T) {
	s := newTestSession(t)
	s.state = Gravity
	s.falling = append(s.falling, faller(3, 8, grid.CellSize-2, grid.Yellow))

	s.Step(Tick{Elapsed: frame})

	assert.Empty(t, s.Falling())
	c := s.grid.Cell(grid.Index{Col: 3, Row: grid.Rows - 1})
	assert.Equal(t, grid.Idle, c.State)
	assert.Equal(t, grid.Yellow, c.Color)

	stepUntil(t, s, Tick{Elapsed: frame}, ScanForVictims, 20)
	assert.Equal(t, grid.GridToPlay(grid.Index{Col: 3, Row: grid.Rows - 1}), c.Position)
}

func TestGravityStacksPair(t *testing.T) {
	s := newTestSession(t)
	s.state = Gravity
	s.falling = append(s.falling,
		faller(0, 8, 40, grid.Blue),
		faller(0, 7, 40, grid.Green),
	)

	s.Step(Tick{Elapsed: frame})

	assert.Empty(t, s.Falling())
	assert.Equal(t, grid.Blue, s.grid.Cell(grid.Index{Col: 0, Row: 9}).Color)
	assert.Equal(t, grid.Green, s.grid.Cell(grid.Index{Col: 0, Row: 8}).Color)
}

func TestGravityIsFrameRateIndependent(t *testing.T) {
	assert.Equal(t, 3, fallPixels(3, frame, frame))
	assert.Equal(t, 6, fallPixels(3, 2*frame, frame))
	assert.Equal(t, 2, fallPixels(3, frame/2, frame))
	assert.Equal(t, 0, fallPixels(3, -frame, frame))
	assert.Equal(t, grid.CellSize, fallPixels(12, 1, frame))
}

func TestGameOver(t *testing.T) {
	t.Run("settle in top row", func(t *testing.T) {
		s := newTestSession(t)
		for row := 1; row < grid.Rows; row++ {
			s.grid.Settle(grid.Index{Col: 0, Row: row}, grid.Red, 0)
		}
		s.state = Gravity
		s.falling = append(s.falling, faller(0, -1, 40, grid.Green))

		assert.Equal(t, GameOver, s.Step(Tick{Elapsed: frame}))
		assert.True(t, s.grid.IsIdle(grid.Index{Col: 0, Row: 0}))
		assert.Empty(t, s.Falling())
	})

	t.Run("settle above the board", func(t *testing.T) {
		s := newTestSession(t)
		for row := range grid.Rows {
			s.grid.Settle(grid.Index{Col: 4, Row: row}, grid.Red, 0)
		}
		pairAt(s, 4, -2, South)

		assert.Equal(t, GameOver, s.Step(Tick{Elapsed: frame}))
	})
}

func TestGameOverRevealsGhostRows(t *testing.T) {
	s := newTestSession(t)
	s.state = GameOver

	s.Step(Tick{})
	assert.Equal(t, grid.Ghost, s.grid.Cell(grid.Index{Col: 0, Row: grid.Rows - 1}).State)
	assert.Equal(t, grid.Columns, s.grid.Count(grid.Ghost))

	for range grid.Rows + 3 {
		assert.Equal(t, GameOver, s.Step(Tick{}))
	}
	assert.Equal(t, grid.Columns*grid.Rows, s.grid.Count(grid.Ghost))

	assert.Equal(t, Menu, s.Step(Tick{Command: Back}))
}

func TestChainResolution(t *testing.T) {
	s := newTestSession(t)
	for col := range 3 {
		s.grid.Settle(grid.Index{Col: col, Row: 9}, grid.Red, 0)
	}
	s.grid.Settle(grid.Index{Col: 1, Row: 8}, grid.Green, 0)
	s.state = Gravity
	s.falling = append(s.falling, faller(3, 8, 0, grid.Red))

	tick := Tick{Elapsed: frame}
	stepUntil(t, s, tick, ScanForVictims, 30)

	assert.Equal(t, AnimateDeaths, s.Step(tick))
	assert.Equal(t, uint32(100), s.Score())
	assert.Equal(t, 4, s.grid.Count(grid.Dying))

	chains := s.TakeChains()
	require.Len(t, chains, 1)
	assert.Equal(t, uint32(100), chains[0].Points)
	assert.Equal(t, grid.Red, chains[0].Color)
	assert.Len(t, chains[0].Cells, 4)
	assert.Empty(t, s.TakeChains())

	stepUntil(t, s, Tick{Elapsed: s.cfg.DeathFrameSeconds}, ScanForFloaters, grid.BubbleFrames+1)
	assert.Zero(t, s.grid.Count(grid.Dying))

	assert.Equal(t, Gravity, s.Step(tick), "the green bubble floats")
	require.Len(t, s.Falling(), 1)
	assert.Equal(t, grid.Green, s.Falling()[0].Color)

	stepUntil(t, s, tick, ScanForVictims, 40)
	assert.True(t, s.grid.IsIdle(grid.Index{Col: 1, Row: 9}))
	assert.Equal(t, BubbleSpawn, s.Step(tick))
	assert.Zero(t, s.TakeOutgoing(), "single player owes no garbage")
}

func TestAnimateDeathsWaitsForLatch(t *testing.T) {
	s := newTestSession(t)
	for col := range 4 {
		s.grid.Settle(grid.Index{Col: col, Row: 9}, grid.Blue, 0)
	}
	s.state = ScanForVictims
	s.Step(Tick{})

	half := Tick{Elapsed: s.cfg.DeathFrameSeconds / 2}
	assert.Equal(t, AnimateDeaths, s.Step(half))
	assert.Zero(t, s.grid.Cell(grid.Index{Col: 0, Row: 9}).AnimationFrame)
	assert.Equal(t, AnimateDeaths, s.Step(half))
	assert.Equal(t, uint8(1), s.grid.Cell(grid.Index{Col: 0, Row: 9}).AnimationFrame)

	assert.Equal(t, ScanForFloaters, s.Step(Tick{Elapsed: 10}))
}

func TestLevels(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, s.cfg.FallSpeed, s.levelFallSpeed())

	s.score = 2500
	assert.Equal(t, 3, s.Level())
	assert.Equal(t, s.cfg.FallSpeed+2*s.cfg.LevelFallStep, s.levelFallSpeed())

	s.score = 1_000_000
	assert.Equal(t, s.cfg.FastFallSpeed, s.levelFallSpeed())
}

func TestQuit(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.QuitRequested())
	s.Step(Tick{Command: Quit})
	assert.True(t, s.QuitRequested())
}

func TestNetworkLifecycle(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, WaitForPeer, s.Step(Tick{Command: Host}))
	assert.Equal(t, WaitForPeer, s.Step(Tick{}))

	assert.Equal(t, PlayerControl, s.Step(Tick{Net: netplay.Event{Type: netplay.Connected}}))
	assert.True(t, s.Networked())
	assert.Len(t, s.Falling(), 2)

	s.Step(Tick{Net: netplay.Event{Type: netplay.NumBubbles, NumBubbles: 3}})
	assert.Equal(t, 3, s.PendingEnemies())

	assert.Equal(t, Disconnected, s.Step(Tick{Net: netplay.Event{Type: netplay.Disconnected}}))
	assert.Equal(t, "connection lost", s.Message())
	assert.False(t, s.Networked())
	assert.Empty(t, s.Falling())

	assert.Equal(t, Disconnected, s.Step(Tick{Command: Start}))
	assert.Equal(t, Menu, s.Step(Tick{Command: Back}))
}

func TestNetworkEventsOutsideNetworkedPlay(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, Menu, s.Step(Tick{Net: netplay.Event{Type: netplay.Connected}}))
	assert.False(t, s.Networked())

	s.Step(Tick{Command: Start})
	s.Step(Tick{Net: netplay.Event{Type: netplay.NumBubbles, NumBubbles: 9}})
	assert.Zero(t, s.PendingEnemies())

	assert.Equal(t, PlayerControl, s.Step(Tick{Net: netplay.Event{Type: netplay.Disconnected}}))
}

func TestCancelWaiting(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, Connecting, s.Step(Tick{Command: Join}))
	assert.Equal(t, Menu, s.Step(Tick{Command: Back}))

	s.Step(Tick{Command: Join})
	assert.Equal(t, Disconnected, s.Step(Tick{Net: netplay.Event{Type: netplay.Disconnected}}))
}

func TestPendingEnemiesSaturate(t *testing.T) {
	s := newTestSession(t)
	s.networked = true
	s.state = PlayerControl
	s.pendingEnemies = maxPendingEnemies - 1

	s.merge(netplay.Event{Type: netplay.NumBubbles, NumBubbles: 200})
	assert.Equal(t, maxPendingEnemies, s.PendingEnemies())
}

func TestDropEnemyBubbles(t *testing.T) {
	s := newTestSession(t)
	s.networked = true
	s.pendingEnemies = 7
	s.state = ScanForVictims

	require.Equal(t, DropEnemyBubbles, s.Step(Tick{}))
	require.Equal(t, Gravity, s.Step(Tick{}))

	assert.Equal(t, 2, s.PendingEnemies())
	falling := s.Falling()
	require.Len(t, falling, grid.Columns)
	cols := map[int]bool{}
	for _, c := range falling {
		assert.Equal(t, grid.Falling, c.State)
		assert.Equal(t, enemyRow*grid.CellSize, c.Position.Y)
		cols[c.Position.X/grid.CellSize] = true
	}
	assert.Len(t, cols, grid.Columns)

	assert.Equal(t, BubbleSpawn, s.endTurn(), "one batch per turn")

	s.state = BubbleSpawn
	s.Step(Tick{})
	assert.Equal(t, DropEnemyBubbles, s.endTurn())
}

func TestDropFewerEnemiesThanColumns(t *testing.T) {
	s := newTestSession(t)
	s.networked = true
	s.pendingEnemies = 2
	s.state = DropEnemyBubbles

	s.Step(Tick{})
	assert.Len(t, s.Falling(), 2)
	assert.Zero(t, s.PendingEnemies())
}

func TestOutgoingGarbage(t *testing.T) {
	s := newTestSession(t)
	s.networked = true
	for col := range 5 {
		s.grid.Settle(grid.Index{Col: col, Row: 9}, grid.Green, 0)
	}
	s.state = ScanForVictims

	s.Step(Tick{})
	assert.Equal(t, uint8(2), s.TakeOutgoing())
	assert.Zero(t, s.TakeOutgoing())

	s.outgoing = 300
	assert.Equal(t, uint8(255), s.TakeOutgoing())
	assert.Equal(t, uint8(45), s.TakeOutgoing())
}

func TestStartResetsBoard(t *testing.T) {
	s := newTestSession(t)
	s.grid.Settle(grid.Index{Col: 0, Row: 9}, grid.Red, 0)
	s.score = 500

	s.Step(Tick{Command: Start})
	assert.Zero(t, s.Score())
	assert.Zero(t, s.grid.Count(grid.Idle))
}

package game

import (
	"log"

	"github.com/plus3/superbubble/ecs"
	"github.com/plus3/superbubble/grid"
	"github.com/plus3/superbubble/netplay"
)

// PopupSeconds is how long a chain score popup stays on screen.
const PopupSeconds = 0.8

// Popup is a floating score label spawned for every confirmed chain.
type Popup struct {
	// Position is the play-space center of the chain.
	Position grid.Point
	Color    grid.Color
	Points   uint32
	Age      float64
}

// RegisterComponents registers the entity components of this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Popup](registry)
}

// Inbox queues session commands from the host and carries the network
// event polled this frame. Commands are applied one per frame.
type Inbox struct {
	commands []Command
	Net      netplay.Event
}

// Push queues c for a later frame.
func (b *Inbox) Push(c Command) {
	b.commands = append(b.commands, c)
}

func (b *Inbox) pop() Command {
	if len(b.commands) == 0 {
		return NoCommand
	}
	c := b.commands[0]
	b.commands = b.commands[1:]
	return c
}

// Peer is the network link a session talks to its opponent through.
type Peer interface {
	Host() error
	Join() error
	Poll() netplay.Event
	SendBubbles(n uint8) error
	Close() error
}

// NetplaySystem opens and closes the peer link as the session moves between
// the menu, the wait states and play, and moves garbage in both directions.
// It must run before SessionSystem.
type NetplaySystem struct {
	Session ecs.Singleton[Session]
	Inbox   ecs.Singleton[Inbox]

	// NewPeer creates a link for each host or join attempt. A nil NewPeer
	// makes hosting and joining fail straight away.
	NewPeer func() Peer
	Logger  *log.Logger

	peer Peer
}

func (s *NetplaySystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	inbox := s.Inbox.Get()
	if session == nil || inbox == nil {
		return
	}
	inbox.Net = netplay.Event{}

	state := session.State()
	switch {
	case state.Waiting() && s.peer == nil:
		s.open(state, inbox)
		return
	case state == Menu || state == Disconnected:
		s.close()
		return
	case s.peer == nil:
		return
	}

	if n := session.TakeOutgoing(); n > 0 {
		if err := s.peer.SendBubbles(n); err != nil {
			s.logf("send %d bubbles: %v", n, err)
		}
	}
	inbox.Net = s.peer.Poll()
}

func (s *NetplaySystem) open(state State, inbox *Inbox) {
	if s.NewPeer == nil {
		inbox.Net = netplay.Event{Type: netplay.Disconnected}
		return
	}

	s.peer = s.NewPeer()
	var err error
	if state == WaitForPeer {
		err = s.peer.Host()
	} else {
		err = s.peer.Join()
	}
	if err != nil {
		s.logf("%s: %v", state, err)
		s.close()
		inbox.Net = netplay.Event{Type: netplay.Disconnected}
	}
}

func (s *NetplaySystem) close() {
	if s.peer == nil {
		return
	}
	if err := s.peer.Close(); err != nil {
		s.logf("close link: %v", err)
	}
	s.peer = nil
}

func (s *NetplaySystem) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// SessionSystem steps the session once per frame and turns confirmed chains
// into Popup entities.
type SessionSystem struct {
	Session ecs.Singleton[Session]
	Inbox   ecs.Singleton[Inbox]

	Logger *log.Logger
}

func (s *SessionSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session == nil {
		return
	}

	tick := Tick{Elapsed: frame.DeltaTime}
	if inbox := s.Inbox.Get(); inbox != nil {
		tick.Command = inbox.pop()
		tick.Net = inbox.Net
		inbox.Net = netplay.Event{}
	}

	before := session.State()
	after := session.Step(tick)
	if before != after && s.Logger != nil {
		s.Logger.Printf("session %s -> %s (score %d)", before, after, session.Score())
	}

	for _, chain := range session.TakeChains() {
		frame.Commands.Spawn(Popup{
			Position: chainCenter(chain.Cells),
			Color:    chain.Color,
			Points:   chain.Points,
		})
	}
}

func chainCenter(cells []grid.Index) grid.Point {
	var sum grid.Point
	for _, i := range cells {
		p := grid.GridToPlay(i)
		sum = sum.Add(p.X, p.Y)
	}
	n := max(len(cells), 1)
	return grid.Point{X: sum.X/n + grid.CellSize/2, Y: sum.Y/n + grid.CellSize/2}
}

// PopupSystem ages popups and deletes expired ones.
type PopupSystem struct {
	Popups ecs.Query[struct{ *Popup }]
}

func (s *PopupSystem) Execute(frame *ecs.UpdateFrame) {
	for id, p := range s.Popups.Iter() {
		p.Age += frame.DeltaTime
		if p.Age >= PopupSeconds {
			frame.Commands.Delete(id)
		}
	}
}

// NewWorld returns a storage holding a Session for cfg and an empty Inbox.
// register adds host components, such as debug UI items, to the registry.
func NewWorld(cfg Config, register ...func(*ecs.ComponentRegistry)) *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, fn := range register {
		fn(registry)
	}
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton[Session](storage, *NewSession(cfg))
	ecs.NewSingleton[Inbox](storage)
	return storage
}

// RegisterSystems appends the netplay, session and popup systems to
// scheduler. Hosts register their input system first and their renderer
// after.
func RegisterSystems(scheduler *ecs.Scheduler, newPeer func() Peer, logger *log.Logger) {
	scheduler.Register(&NetplaySystem{NewPeer: newPeer, Logger: logger})
	scheduler.Register(&SessionSystem{Logger: logger})
	scheduler.Register(&PopupSystem{})
}

package netplay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrClosed       = errors.New("netplay: link closed")
	ErrNotConnected = errors.New("netplay: not connected")
	ErrBusy         = errors.New("netplay: link already open")
	ErrQueueFull    = errors.New("netplay: send queue full")
)

// helloByte is sent by the joining peer as soon as it connects. Every other
// byte on the wire is a garbage bubble count in [1,255].
const helloByte = 0

// LinkState represents the link lifecycle
type LinkState uint32

const (
	StateIdle LinkState = iota
	StateListening
	StateDialing
	StateConnected
	// StateDisconnected means the peer left or could not be reached.
	StateDisconnected
	StateClosed
)

func (s LinkState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateDialing:
		return "dialing"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateClosed:
		return "closed"
	default:
		return "LinkState(" + strconv.Itoa(int(s)) + ")"
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 256,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Link is one end of a two-player connection. A Link either hosts or joins,
// once; Close it and create a new one to play again. Network I/O runs on
// background goroutines and surfaces through Poll, so the game loop never
// blocks on the network.
type Link struct {
	cfg    *Config
	logger *log.Logger

	state  atomic.Uint32
	events chan Event
	sendCh chan uint8

	mu       sync.Mutex
	conn     *websocket.Conn
	listener net.Listener
	server   *http.Server

	ctx       context.Context
	cancel    context.CancelFunc
	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewLink creates an idle link. logger may be nil.
func NewLink(cfg *Config, logger *log.Logger) *Link {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Link{
		cfg:     cfg,
		logger:  logger,
		events:  make(chan Event, cfg.EventQueueSize),
		sendCh:  make(chan uint8, cfg.SendQueueSize),
		ctx:     ctx,
		cancel:  cancel,
		closeCh: make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (l *Link) State() LinkState {
	return LinkState(l.state.Load())
}

// Connected reports whether a peer is attached.
func (l *Link) Connected() bool {
	return l.State() == StateConnected
}

// Host starts listening for a single peer. It returns once the listener is
// bound; the peer's arrival is reported by Poll as Connected.
func (l *Link) Host() error {
	if !l.state.CompareAndSwap(uint32(StateIdle), uint32(StateListening)) {
		return l.busy()
	}

	ln, err := net.Listen("tcp", l.cfg.Addr)
	if err != nil {
		l.state.Store(uint32(StateIdle))
		return fmt.Errorf("host on %s: %w", l.cfg.Addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(l.cfg.Path, l.accept)
	server := &http.Server{Handler: mux, ReadHeaderTimeout: l.cfg.ConnectTimeout}

	l.mu.Lock()
	l.listener = ln
	l.server = server
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logf("serve: %v", err)
		}
	}()

	l.logf("hosting on %s", ln.Addr())
	return nil
}

// Addr returns the bound listen address while hosting, or the configured
// address otherwise.
func (l *Link) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener != nil {
		return l.listener.Addr().String()
	}
	return l.cfg.Addr
}

func (l *Link) accept(w http.ResponseWriter, r *http.Request) {
	if l.State() != StateListening {
		http.Error(w, "game in progress", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logf("upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	if !l.state.CompareAndSwap(uint32(StateListening), uint32(StateConnected)) {
		conn.Close()
		return
	}
	l.attach(conn)
}

// Join dials the hosting peer in the background. A failed dial is reported
// by Poll as Disconnected.
func (l *Link) Join() error {
	if !l.state.CompareAndSwap(uint32(StateIdle), uint32(StateDialing)) {
		return l.busy()
	}

	u := url.URL{Scheme: "ws", Host: withDefaultPort(l.cfg.Addr), Path: l.cfg.Path}
	dialer := websocket.Dialer{HandshakeTimeout: l.cfg.ConnectTimeout}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		conn, _, err := dialer.DialContext(l.ctx, u.String(), nil)
		if err != nil {
			l.logf("join %s: %v", u.String(), err)
			if l.state.CompareAndSwap(uint32(StateDialing), uint32(StateDisconnected)) {
				l.push(Event{Type: Disconnected})
			}
			return
		}

		if !l.state.CompareAndSwap(uint32(StateDialing), uint32(StateConnected)) {
			conn.Close()
			return
		}
		if err := l.write(conn, helloByte); err != nil {
			l.logf("hello: %v", err)
		}
		l.attach(conn)
	}()
	return nil
}

// attach takes ownership of an established connection.
func (l *Link) attach(conn *websocket.Conn) {
	l.mu.Lock()
	if l.State() == StateClosed {
		l.mu.Unlock()
		conn.Close()
		return
	}
	l.conn = conn
	l.wg.Add(2)
	l.mu.Unlock()

	l.logf("peer %s connected", conn.RemoteAddr())
	l.push(Event{Type: Connected})

	go l.readLoop(conn)
	go l.writeLoop(conn)
}

func (l *Link) readLoop(conn *websocket.Conn) {
	defer l.wg.Done()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			l.drop(conn, err)
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		for _, b := range data {
			if b == helloByte {
				continue
			}
			l.push(Event{Type: NumBubbles, NumBubbles: b})
		}
	}
}

func (l *Link) writeLoop(conn *websocket.Conn) {
	defer l.wg.Done()

	for {
		select {
		case <-l.closeCh:
			return
		case n := <-l.sendCh:
			if err := l.write(conn, n); err != nil {
				l.drop(conn, err)
				return
			}
		}
	}
}

func (l *Link) write(conn *websocket.Conn, b byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, []byte{b})
}

// drop ends a connection that failed. Only the first failure of a live
// connection is reported; failures after Close are not.
func (l *Link) drop(conn *websocket.Conn, err error) {
	if !l.state.CompareAndSwap(uint32(StateConnected), uint32(StateDisconnected)) {
		return
	}
	conn.Close()
	l.logf("peer %s disconnected: %v", conn.RemoteAddr(), err)
	l.push(Event{Type: Disconnected})
}

// push queues ev for Poll, blocking while the queue is full unless the
// link is closed.
func (l *Link) push(ev Event) {
	select {
	case l.events <- ev:
	case <-l.closeCh:
	}
}

// Poll returns the next pending event, or a NoMessage event.
func (l *Link) Poll() Event {
	select {
	case ev := <-l.events:
		return ev
	default:
		return Event{}
	}
}

// SendBubbles queues a garbage count for the peer. Zero is a no-op.
func (l *Link) SendBubbles(n uint8) error {
	if n == 0 {
		return nil
	}
	switch l.State() {
	case StateClosed:
		return ErrClosed
	case StateConnected:
	default:
		return ErrNotConnected
	}

	select {
	case l.sendCh <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops listening, drops the peer and waits for the background
// goroutines. It is safe to call more than once.
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.state.Store(uint32(StateClosed))
		conn, server := l.conn, l.server
		l.mu.Unlock()

		close(l.closeCh)
		l.cancel()

		if server != nil {
			err = server.Close()
		}
		if conn != nil {
			conn.Close()
		}
		l.wg.Wait()
	})
	return err
}

func (l *Link) busy() error {
	switch l.State() {
	case StateClosed, StateDisconnected:
		return ErrClosed
	}
	return ErrBusy
}

func (l *Link) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
}

package netplay

import (
	"fmt"
	"time"
)

// DefaultPort is the port a hosting peer listens on.
const DefaultPort = 2468

// Config holds link configuration
type Config struct {
	// Addr is the listen address when hosting and the peer's host:port when
	// joining.
	Addr string
	// Path is the websocket endpoint on the hosting peer.
	Path string

	// Timing
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	// Queue sizes
	EventQueueSize int
	SendQueueSize  int
}

// DefaultConfig returns a config that hosts on every interface.
func DefaultConfig() *Config {
	return &Config{
		Addr:           fmt.Sprintf(":%d", DefaultPort),
		Path:           "/superbubble",
		ConnectTimeout: 5 * time.Second,
		WriteTimeout:   2 * time.Second,
		EventQueueSize: 64,
		SendQueueSize:  64,
	}
}

// JoinConfig returns DefaultConfig pointed at a hosting peer. A host without
// a port gets DefaultPort.
func JoinConfig(host string) *Config {
	cfg := DefaultConfig()
	cfg.Addr = withDefaultPort(host)
	return cfg
}

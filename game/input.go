package game

import "strings"

// Intent is a set of player control requests. Each pressed intent is an
// edge: it is acted on at most once and then forgotten.
type Intent uint8

const (
	Left Intent = 1 << iota
	Right
	RotateCW
	RotateACW
	Drop
)

// intentOrder is the order pending intents are served in, one per tick.
var intentOrder = [...]Intent{Left, Right, RotateCW, RotateACW, Drop}

var intentNames = [...]string{"left", "right", "rotate-cw", "rotate-acw", "drop"}

func (i Intent) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	for n, in := range intentOrder {
		if i&in != 0 {
			parts = append(parts, intentNames[n])
		}
	}
	return strings.Join(parts, "|")
}

// Controls collects intent edges between ticks.
type Controls struct {
	pending Intent
}

// Press records an edge for every intent in i.
func (c *Controls) Press(i Intent) {
	c.pending |= i
}

// Take consumes and returns the highest-priority pending intent.
func (c *Controls) Take() (Intent, bool) {
	for _, in := range intentOrder {
		if c.pending&in != 0 {
			c.pending &^= in
			return in, true
		}
	}
	return 0, false
}

// Pending returns the intents not yet consumed.
func (c *Controls) Pending() Intent {
	return c.pending
}

// Reset drops every pending intent.
func (c *Controls) Reset() {
	c.pending = 0
}

// Command is a session-level request from the menu or the host.
type Command uint8

const (
	NoCommand Command = iota
	// Start begins a single-player game from the menu.
	Start
	// Host waits for a peer to connect.
	Host
	// Join connects to a waiting peer.
	Join
	// Back leaves game over, disconnect or a pending connection for the menu.
	Back
	// Quit asks the host to exit.
	Quit
)

var commandNames = [...]string{"none", "start", "host", "join", "back", "quit"}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

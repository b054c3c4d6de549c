package netplay

import "fmt"

// MessageType classifies what a Poll observed on the link.
type MessageType uint8

const (
	NoMessage MessageType = iota
	Connected
	Disconnected
	// NumBubbles carries a count of garbage bubbles sent by the peer.
	NumBubbles
)

func (t MessageType) String() string {
	switch t {
	case NoMessage:
		return "no-message"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case NumBubbles:
		return "num-bubbles"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// Event is one observation of the link. NumBubbles is only set when Type is
// NumBubbles.
type Event struct {
	Type       MessageType
	NumBubbles uint8
}

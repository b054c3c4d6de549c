package game

import "fmt"

// State is a node of the session state machine.
type State uint8

const (
	Menu State = iota
	WaitForPeer
	Connecting
	BubbleSpawn
	PlayerControl
	DropEnemyBubbles
	Gravity
	ScanForVictims
	AnimateDeaths
	ScanForFloaters
	GameOver
	Disconnected
)

var stateNames = [...]string{
	Menu:             "menu",
	WaitForPeer:      "wait-for-peer",
	Connecting:       "connecting",
	BubbleSpawn:      "bubble-spawn",
	PlayerControl:    "player-control",
	DropEnemyBubbles: "drop-enemy-bubbles",
	Gravity:          "gravity",
	ScanForVictims:   "scan-for-victims",
	AnimateDeaths:    "animate-deaths",
	ScanForFloaters:  "scan-for-floaters",
	GameOver:         "game-over",
	Disconnected:     "disconnected",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Playing reports whether s is part of a running game, from spawn to game
// over.
func (s State) Playing() bool {
	return s >= BubbleSpawn && s <= GameOver
}

// Waiting reports whether s is waiting for a network peer.
func (s State) Waiting() bool {
	return s == WaitForPeer || s == Connecting
}

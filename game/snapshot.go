package game

import (
	"fmt"

	"github.com/plus3/superbubble/grid"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a read-only copy of what a renderer needs from a session.
type Snapshot struct {
	State          State         `msgpack:"state"`
	Score          uint32        `msgpack:"score"`
	Level          int           `msgpack:"level"`
	NextColors     [2]grid.Color `msgpack:"next"`
	Orientation    Orientation   `msgpack:"orientation"`
	Board          []grid.Cell   `msgpack:"board"`
	Falling        []grid.Cell   `msgpack:"falling"`
	PendingEnemies int           `msgpack:"pending,omitempty"`
	Networked      bool          `msgpack:"networked,omitempty"`
	Message        string        `msgpack:"message,omitempty"`
}

// Snapshot copies the session's visible state. Board holds every cell in
// row-major order.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:          s.state,
		Score:          s.score,
		Level:          s.Level(),
		NextColors:     s.nextColors,
		Orientation:    s.orientation,
		Board:          make([]grid.Cell, 0, grid.Columns*grid.Rows),
		Falling:        append([]grid.Cell(nil), s.falling...),
		PendingEnemies: s.pendingEnemies,
		Networked:      s.networked,
		Message:        s.message,
	}
	for _, c := range s.grid.All() {
		snap.Board = append(snap.Board, *c)
	}
	return snap
}

// Occupied returns the board cells that hold a bubble.
func (snap *Snapshot) Occupied() []grid.Cell {
	var cells []grid.Cell
	for _, c := range snap.Board {
		if c.State != grid.Dead {
			cells = append(cells, c)
		}
	}
	return cells
}

// EncodeSnapshot serializes snap with msgpack.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

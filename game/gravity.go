package game

import (
	"math"

	"github.com/plus3/superbubble/grid"
)

// fallPixels converts a fall speed per target frame into a distance for a
// tick of elapsed seconds, clamped to one cell.
func fallPixels(speed int, elapsed, frameSeconds float64) int {
	pixels := int(math.Round(float64(speed) * (elapsed / frameSeconds)))
	return min(max(pixels, 0), grid.CellSize)
}

// applyGravity moves every falling bubble down, settling the ones that would
// hit the floor or a settled bubble. The list is processed in order, so a
// bubble can land on one that settled earlier in the same tick.
func (s *Session) applyGravity(elapsed float64) State {
	pixels := fallPixels(s.fallSpeed, elapsed, s.cfg.TargetFrameSeconds)

	kept := s.falling[:0]
	for _, b := range s.falling {
		next := b.Position.Add(0, pixels)
		rest, hit := s.grid.SnapDown(next)
		if !hit {
			b.Position = next
			kept = append(kept, b)
			continue
		}

		if rest.Row < 0 {
			s.falling = s.falling[:0]
			return GameOver
		}
		s.grid.Settle(rest, b.Color, s.cfg.BounceHeight)
		s.bounces.Add(rest)
		if rest.Row == 0 {
			s.falling = s.falling[:0]
			return GameOver
		}
	}
	s.falling = kept

	if s.bounces.Len() > 0 {
		s.bounces.Step(&s.grid)
		return Gravity
	}
	if len(s.falling) == 0 {
		return ScanForVictims
	}
	return Gravity
}

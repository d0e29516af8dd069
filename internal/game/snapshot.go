package game

import (
	"rustris/internal/board"
	"rustris/internal/rustomino"
)

// Snapshot is the read-only view the renderer consumes. The piece fields
// are copies; nil means absent. Nothing in a snapshot can mutate the
// session.
type Snapshot struct {
	Slots   board.Slots
	Current *rustomino.Rustomino
	Ghost   *rustomino.Rustomino
	Next    *rustomino.Rustomino
	Held    *rustomino.Rustomino

	Score        int
	Level        int
	LinesCleared int
	Phase        Phase
}

// Snapshot captures the current session state for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Slots:        s.board.Slots(),
		Score:        s.score.CurrentScore,
		Level:        s.score.Level,
		LinesCleared: s.score.LinesCleared,
		Phase:        s.Phase(),
	}
	if current, ok := s.board.Current(); ok {
		snap.Current = &current
	}
	if ghost, ok := s.board.Ghost(); ok {
		snap.Ghost = &ghost
	}
	if s.next != nil {
		next := *s.next
		snap.Next = &next
	}
	if s.held != nil {
		held := *s.held
		snap.Held = &held
	}
	return snap
}

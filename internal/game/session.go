package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"rustris/internal/board"
	"rustris/internal/rustomino"
	"rustris/internal/scoring"
)

// Phase is the top-level game phase.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhasePlaying  Phase = "playing"
	PhasePaused   Phase = "paused"
	PhaseGameOver Phase = "gameover"
)

const (
	eventStart        = "start"
	eventPause        = "pause"
	eventResume       = "resume"
	eventRestart      = "restart"
	eventSpawnBlocked = "spawnBlocked"
)

// Options configures a new session.
type Options struct {
	// StartLevel is the level the session begins at; values below 1 are
	// treated as 1.
	StartLevel int
	// Source seeds the bag randomizer. A nil Source uses the clock.
	Source rand.Source
}

// pieceSupply abstracts the bag randomizer so tests can script the piece
// sequence.
type pieceSupply interface {
	Next() rustomino.Type
}

// Session owns a board plus the next and held rustominos, score, level and
// phase, and converts elapsed time and input events into board mutations
// and scoring. All of its work is synchronous: one Update call runs to
// completion, there is no background work.
type Session struct {
	board    *board.Board
	bag      pieceSupply
	next     *rustomino.Rustomino
	held     *rustomino.Rustomino
	score    scoring.Scoring
	controls *ControlStates
	fsm      *fsm.FSM

	gravityAccum float64
	gravityDelay float64
	holdUsed     bool

	opts Options
	log  zerolog.Logger
}

// NewSession returns a session in the menu phase with the first next
// rustomino already drawn.
func NewSession(opts Options, log zerolog.Logger) *Session {
	if opts.StartLevel < 1 {
		opts.StartLevel = 1
	}
	if opts.Source == nil {
		opts.Source = rand.NewSource(time.Now().UnixNano())
	}
	s := &Session{
		controls: NewControlStates(),
		opts:     opts,
		log:      log,
	}
	s.fsm = fsm.NewFSM(string(PhaseMenu), phaseTransitions(), phaseCallbacks(s))
	s.resetRound()
	return s
}

func phaseTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: eventStart, Src: []string{string(PhaseMenu)}, Dst: string(PhasePlaying)},
		{Name: eventPause, Src: []string{string(PhasePlaying)}, Dst: string(PhasePaused)},
		{Name: eventResume, Src: []string{string(PhasePaused)}, Dst: string(PhasePlaying)},
		{Name: eventRestart, Src: []string{string(PhaseGameOver)}, Dst: string(PhasePlaying)},
		{Name: eventSpawnBlocked, Src: []string{string(PhasePlaying)}, Dst: string(PhaseGameOver)},
	}
}

func phaseCallbacks(s *Session) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + string(PhasePlaying): func(ctx context.Context, e *fsm.Event) {
			if e.Event == eventRestart {
				s.resetRound()
			}
		},
		"enter_" + string(PhasePaused): func(ctx context.Context, e *fsm.Event) {
			s.controls.Clear()
		},
		"enter_" + string(PhaseGameOver): func(ctx context.Context, e *fsm.Event) {
			s.controls.Clear()
			s.log.Info().Int("score", s.score.CurrentScore).Msg("game over")
		},
	}
}

// resetRound builds a fresh round in one place, so a restart can never
// carry over part of the previous round's state.
func (s *Session) resetRound() {
	s.board = board.New(s.log)
	s.bag = rustomino.NewBag(s.opts.Source)
	s.next = nil
	s.held = nil
	s.holdUsed = false
	s.score = scoring.New(s.opts.StartLevel, s.log)
	s.gravityAccum = 0
	s.gravityDelay = scoring.GravityDelay(s.opts.StartLevel)
	s.controls.Clear()
	s.drawNext()
}

// Phase returns the current game phase.
func (s *Session) Phase() Phase {
	return Phase(s.fsm.Current())
}

// Start begins play from the menu.
func (s *Session) Start() { s.firePhase(eventStart) }

// Pause suspends play; all round state is preserved for exact resumption.
func (s *Session) Pause() { s.firePhase(eventPause) }

// Resume continues a paused round.
func (s *Session) Resume() { s.firePhase(eventResume) }

// Restart begins a new round from the game-over phase.
func (s *Session) Restart() { s.firePhase(eventRestart) }

func (s *Session) firePhase(event string) {
	if err := s.fsm.Event(context.Background(), event); err != nil {
		s.log.Debug().Err(err).Str("event", event).Msg("phase event rejected")
	}
}

// Update advances the session by dt elapsed seconds: it supplies the next
// rustomino when the board is ready, fires key repeats, accumulates
// gravity, and advances the level. Only the playing phase does any work;
// the other phases change only through their transition actions.
func (s *Session) Update(dt float64) {
	if s.Phase() != PhasePlaying {
		return
	}

	s.spawnIfReady()
	if s.Phase() != PhasePlaying {
		return
	}

	for _, a := range s.controls.Advance(dt) {
		s.applyAction(a)
	}

	s.gravityAccum += dt
	if s.gravityAccum >= s.gravityDelay {
		s.gravityAccum = 0
		s.gravityTick()
	}

	if s.score.ShouldLevelUp() {
		s.score.IncreaseLevel()
		s.gravityDelay = scoring.GravityDelay(s.score.Level)
	}
}

// HandleAction fires an action once and starts its repeat timer. Outside
// the playing phase actions are ignored.
func (s *Session) HandleAction(a Action) {
	if s.Phase() != PhasePlaying {
		return
	}
	s.controls.Press(a)
	s.applyAction(a)
}

// ReleaseAction stops an action's repeat timer.
func (s *Session) ReleaseAction(a Action) {
	s.controls.Release(a)
}

func (s *Session) applyAction(a Action) {
	switch a {
	case ActionLeft:
		s.board.TranslateCurrent(board.Left)
	case ActionRight:
		s.board.TranslateCurrent(board.Right)
	case ActionRotateCW:
		s.board.RotateCurrent(rustomino.RotateCW)
	case ActionRotateCCW:
		s.board.RotateCurrent(rustomino.RotateCCW)
	case ActionSoftDrop:
		s.softDrop()
	case ActionHardDrop:
		s.hardDrop()
	case ActionHold:
		s.hold()
	}
}

func (s *Session) spawnIfReady() {
	if !s.board.ReadyForNext() {
		return
	}
	current := *s.next
	s.next = nil
	s.drawNext()
	if !s.board.SetCurrent(current) {
		s.firePhase(eventSpawnBlocked)
	}
}

// drawNext refills the next rustomino from the bag. It does nothing when
// one is already buffered, so the session always holds exactly one.
func (s *Session) drawNext() {
	if s.next != nil {
		return
	}
	next := rustomino.New(s.bag.Next())
	s.log.Debug().Stringer("type", next.Type).Msg("next rustomino")
	s.next = &next
}

func (s *Session) gravityTick() {
	if s.board.CanFall() {
		s.board.ApplyGravity()
	} else {
		s.lock("gravity tick")
	}
}

// softDrop moves the rustomino one cell down, or locks it when it cannot
// fall. The gravity accumulator resets so natural gravity does not apply a
// second step inside the same window.
func (s *Session) softDrop() {
	if !s.board.TranslateCurrent(board.Down) {
		s.lock("soft drop")
	}
	s.gravityAccum = 0
}

func (s *Session) hardDrop() {
	s.board.HardDrop()
	s.lock("hard drop")
	s.gravityAccum = 0
}

// hold stashes the active rustomino. A held rustomino swaps in; otherwise
// the buffered next rustomino is consumed. At most one hold per lock.
func (s *Session) hold() {
	if s.holdUsed || s.board.ReadyForNext() {
		return
	}

	var incoming rustomino.Rustomino
	if s.held != nil {
		incoming = s.held.Reset()
		s.held = nil
	} else {
		incoming = *s.next
		s.next = nil
		s.drawNext()
	}

	taken, _ := s.board.TakeCurrent()
	s.held = &taken
	if !s.board.SetCurrent(incoming) {
		s.log.Warn().Stringer("type", incoming.Type).Msg("held rustomino spawned into locked cells")
	}
	s.holdUsed = true
}

// lock settles the active rustomino, re-arms hold, and clears and scores
// any completed lines before returning.
func (s *Session) lock(reason string) {
	if current, ok := s.board.Current(); ok {
		s.log.Debug().Str("reason", reason).Stringer("type", current.Type).Msg("locking")
	}
	s.holdUsed = false
	s.board.Lock()

	cleared := s.board.ClearCompletedLines()
	if len(cleared) == 0 {
		return
	}
	s.score.ScoreCompletedLines(len(cleared))
}

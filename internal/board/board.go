package board

import (
	"strings"

	"github.com/rs/zerolog"

	"rustris/internal/rustomino"
)

const (
	// Width and Height are the full grid dimensions. The two rows above
	// VisibleHeight are buffer rows giving rustominos headroom to spawn
	// and rotate before entering visible play.
	Width         = 10
	Height        = 22
	VisibleHeight = 20
)

// TranslationDirection is a one-cell move request on the board.
type TranslationDirection int

const (
	Left TranslationDirection = iota
	Right
	Down
)

func (d TranslationDirection) translation() rustomino.Vec {
	switch d {
	case Left:
		return rustomino.Vec{X: -1}
	case Right:
		return rustomino.Vec{X: 1}
	default:
		return rustomino.Vec{Y: -1}
	}
}

var downTranslation = rustomino.Vec{Y: -1}

// Board owns the slot grid and the active and ghost rustominos. All grid
// mutation goes through its methods; callers read state via Slots and the
// piece accessors.
type Board struct {
	slots   Slots
	current *rustomino.Rustomino
	ghost   *rustomino.Rustomino
	log     zerolog.Logger
}

// New returns an empty board.
func New(log zerolog.Logger) *Board {
	log.Info().Msg("initializing board")
	return &Board{log: log}
}

// Slots returns a copy of the grid.
func (b *Board) Slots() Slots {
	return b.slots
}

// Current returns a copy of the active rustomino, if any.
func (b *Board) Current() (rustomino.Rustomino, bool) {
	if b.current == nil {
		return rustomino.Rustomino{}, false
	}
	return *b.current, true
}

// Ghost returns a copy of the ghost rustomino, if any.
func (b *Board) Ghost() (rustomino.Rustomino, bool) {
	if b.ghost == nil {
		return rustomino.Rustomino{}, false
	}
	return *b.ghost, true
}

// SetCurrent accepts a rustomino as the active piece, writing its cells as
// occupied. It returns false if the cells as placed already collide with
// locked cells: the spawn is blocked and the round is over. The cells are
// written even then, so the renderer shows the fatal overlap.
func (b *Board) SetCurrent(r rustomino.Rustomino) bool {
	b.log.Debug().Stringer("type", r.Type).Msg("setting current rustomino")
	ok := !b.checkCollision(r.BoardSlots())
	b.setSlots(r.BoardSlots(), Slot{State: SlotOccupied, Type: r.Type})
	b.current = &r
	b.updateGhost()
	return ok
}

// TakeCurrent removes the active rustomino from the board, clearing its
// cells, and returns it reset to its spawn state.
func (b *Board) TakeCurrent() (rustomino.Rustomino, bool) {
	if b.current == nil {
		return rustomino.Rustomino{}, false
	}
	taken := *b.current
	b.log.Debug().Stringer("type", taken.Type).Msg("taking current rustomino")
	b.setSlots(taken.BoardSlots(), Slot{})
	b.current = nil
	b.updateGhost()
	return taken.Reset(), true
}

// ReadyForNext reports whether the board needs the next rustomino.
func (b *Board) ReadyForNext() bool {
	return b.current == nil
}

// CanFall reports whether the active rustomino can move one cell down.
// It is false when there is no active rustomino.
func (b *Board) CanFall() bool {
	if b.current == nil {
		return false
	}
	return !b.checkCollision(b.current.Translated(downTranslation))
}

// ApplyGravity moves the active rustomino one cell down unconditionally.
// Callers must have confirmed CanFall.
func (b *Board) ApplyGravity() {
	if b.current == nil {
		return
	}
	b.setSlots(b.current.BoardSlots(), Slot{})
	b.current.Translate(downTranslation)
	b.setSlots(b.current.BoardSlots(), Slot{State: SlotOccupied, Type: b.current.Type})
}

// TranslateCurrent attempts to move the active rustomino one cell in the
// given direction. It reports whether the move was committed.
func (b *Board) TranslateCurrent(direction TranslationDirection) bool {
	if b.current == nil {
		return false
	}
	delta := direction.translation()
	if b.checkCollision(b.current.Translated(delta)) {
		return false
	}
	b.setSlots(b.current.BoardSlots(), Slot{})
	b.current.Translate(delta)
	b.setSlots(b.current.BoardSlots(), Slot{State: SlotOccupied, Type: b.current.Type})
	b.updateGhost()
	return true
}

// RotateCurrent attempts to rotate the active rustomino. There is no
// wall-kick retry: if the rotated cells collide the rotation fails.
func (b *Board) RotateCurrent(direction rustomino.RotationDirection) bool {
	if b.current == nil {
		return false
	}
	rotated := b.current.Rotated(direction)
	if b.checkCollision(rotated) {
		b.log.Debug().Stringer("type", b.current.Type).Msg("rotation collision")
		return false
	}
	b.setSlots(b.current.BoardSlots(), Slot{})
	b.current.Rotate(direction)
	b.setSlots(b.current.BoardSlots(), Slot{State: SlotOccupied, Type: b.current.Type})
	b.updateGhost()
	return true
}

// HardDrop translates the active rustomino to its landing position. Its
// old cells are cleared; the landing cells are written by the lock that
// follows a hard drop.
func (b *Board) HardDrop() {
	if b.current == nil {
		return
	}
	delta := b.hardDropTranslation(*b.current)
	b.setSlots(b.current.BoardSlots(), Slot{})
	b.current.Translate(delta)
}

// Lock converts the active rustomino's cells to locked and clears the
// active piece slot; the board is then ready for the next rustomino.
func (b *Board) Lock() {
	if b.current == nil {
		return
	}
	b.log.Debug().Stringer("type", b.current.Type).Msg("locking rustomino")
	b.setSlots(b.current.BoardSlots(), Slot{State: SlotLocked, Type: b.current.Type})
	b.current = nil
	b.updateGhost()
}

// CompleteLines returns the ascending indices of rows whose ten cells are
// all locked. Only the tag matters: rows mixing piece types still qualify.
func (b *Board) CompleteLines() []int {
	var complete []int
rows:
	for y := range b.slots {
		for _, slot := range b.slots[y] {
			if !slot.IsLocked() {
				continue rows
			}
		}
		complete = append(complete, y)
	}
	return complete
}

// ClearCompletedLines removes every complete row and compacts the rows
// above them downward, buffer rows included, so rustominos resting partly
// in the buffer fall correctly. It returns the indices of the cleared rows.
func (b *Board) ClearCompletedLines() []int {
	completed := b.CompleteLines()
	if len(completed) == 0 {
		return completed
	}
	b.log.Info().Ints("rows", completed).Msg("clearing completed lines")

	cleared := map[int]bool{}
	for _, y := range completed {
		cleared[y] = true
	}

	before := b.slots
	dst := completed[0]
	for src := dst; src < Height; src++ {
		if cleared[src] {
			continue
		}
		b.slots[dst] = before[src]
		dst++
	}
	for ; dst < Height; dst++ {
		b.slots[dst] = [Width]Slot{}
	}

	b.updateGhost()
	return completed
}

// checkCollision reports whether any candidate cell crosses a wall, the
// floor, or a locked cell. There is no ceiling: rows above the buffer are
// permitted. Occupied and ghost cells never block, which is what lets the
// moving rustomino and its ghost overlay coexist with the grid.
func (b *Board) checkCollision(cells rustomino.Blocks) bool {
	for _, c := range cells {
		if c.X < 0 || c.X >= Width || c.Y < 0 {
			return true
		}
		if c.Y < Height && b.slots[c.Y][c.X].IsLocked() {
			return true
		}
	}
	return false
}

// hardDropTranslation finds the largest downward translation that does not
// collide. If even one cell down collides the rustomino is already resting
// and the zero vector is returned.
func (b *Board) hardDropTranslation(r rustomino.Rustomino) rustomino.Vec {
	delta := downTranslation
	if b.checkCollision(r.Translated(delta)) {
		return rustomino.Vec{}
	}
	for {
		next := delta.Add(downTranslation)
		if b.checkCollision(r.Translated(next)) {
			return delta
		}
		delta = next
	}
}

// updateGhost recomputes the hard-drop silhouette. Stale ghost cells are
// erased only where still tagged ghost, and new ones are painted only over
// empty cells, so the overlay never stomps the active rustomino or locked
// blocks.
func (b *Board) updateGhost() {
	if b.ghost != nil {
		for _, c := range b.ghost.BoardSlots() {
			if c.Y < Height && b.slots[c.Y][c.X].IsGhost() {
				b.slots[c.Y][c.X] = Slot{}
			}
		}
	}
	if b.current == nil {
		b.ghost = nil
		return
	}

	ghost := *b.current
	ghost.Translate(b.hardDropTranslation(ghost))
	b.ghost = &ghost
	for _, c := range ghost.BoardSlots() {
		if c.Y < Height && b.slots[c.Y][c.X].IsEmpty() {
			b.slots[c.Y][c.X] = Slot{State: SlotGhost, Type: ghost.Type}
		}
	}
}

func (b *Board) setSlots(cells rustomino.Blocks, s Slot) {
	for _, c := range cells {
		if c.Y < Height {
			b.slots[c.Y][c.X] = s
		}
	}
}

// String renders the grid top row first, for debug logs.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("-", Width*2))
	sb.WriteByte('\n')
	for y := Height - 1; y >= 0; y-- {
		for _, slot := range b.slots[y] {
			switch slot.State {
			case SlotOccupied:
				sb.WriteString(" #")
			case SlotLocked:
				sb.WriteString(" @")
			case SlotGhost:
				sb.WriteString(" %")
			default:
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("-", Width*2))
	return sb.String()
}

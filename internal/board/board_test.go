package board

import (
	"testing"

	"github.com/rs/zerolog"

	"rustris/internal/rustomino"
)

func newTestBoard() *Board {
	return New(zerolog.Nop())
}

// lockRow fills a full row with locked cells, optionally leaving gaps.
func lockRow(b *Board, y int, gaps ...int) {
	skip := map[int]bool{}
	for _, g := range gaps {
		skip[g] = true
	}
	for x := 0; x < Width; x++ {
		if !skip[x] {
			b.slots[y][x] = Slot{State: SlotLocked, Type: rustomino.TypeL}
		}
	}
}

func countState(b *Board, state SlotState) int {
	n := 0
	for y := range b.slots {
		for x := range b.slots[y] {
			if b.slots[y][x].State == state {
				n++
			}
		}
	}
	return n
}

func TestSetCurrent_WritesOccupiedAndGhost(t *testing.T) {
	b := newTestBoard()
	if !b.SetCurrent(rustomino.New(rustomino.TypeT)) {
		t.Fatal("spawn on an empty board should succeed")
	}
	if b.ReadyForNext() {
		t.Error("board should not be ready for next with an active rustomino")
	}
	if got := countState(b, SlotOccupied); got != 4 {
		t.Errorf("occupied cells = %d, want 4", got)
	}

	// Ghost projects straight down to the floor; spawn rows sit in the
	// buffer so no ghost cell overlaps the rustomino itself.
	if got := countState(b, SlotGhost); got != 4 {
		t.Errorf("ghost cells = %d, want 4", got)
	}
	ghost, ok := b.Ghost()
	if !ok {
		t.Fatal("expected a ghost rustomino")
	}
	for _, c := range ghost.BoardSlots() {
		if c.Y > 2 {
			t.Errorf("ghost cell %v should rest on the floor", c)
		}
	}
}

func TestSetCurrent_SpawnBlockedSignalsGameOver(t *testing.T) {
	b := newTestBoard()

	// Bury the spawn area in locked cells.
	for y := 18; y < Height; y++ {
		lockRow(b, y)
	}
	if b.SetCurrent(rustomino.New(rustomino.TypeO)) {
		t.Error("blocked spawn must return false")
	}
	// The rustomino is still placed so the fatal overlap renders.
	if _, ok := b.Current(); !ok {
		t.Error("blocked spawn should still set the current rustomino")
	}
	if got := countState(b, SlotOccupied); got != 4 {
		t.Errorf("occupied cells = %d, want 4", got)
	}
}

func TestTakeCurrent_ClearsAndResets(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeJ))
	b.TranslateCurrent(Down)
	b.TranslateCurrent(Left)

	taken, ok := b.TakeCurrent()
	if !ok {
		t.Fatal("expected to take the active rustomino")
	}
	if taken != rustomino.New(rustomino.TypeJ) {
		t.Error("taken rustomino should be reset to spawn state")
	}
	if !b.ReadyForNext() {
		t.Error("board should be ready for next after TakeCurrent")
	}
	if got := countState(b, SlotOccupied) + countState(b, SlotGhost); got != 0 {
		t.Errorf("board should be empty after TakeCurrent, found %d painted cells", got)
	}

	if _, ok := b.TakeCurrent(); ok {
		t.Error("TakeCurrent with no active rustomino should report false")
	}
}

func TestTranslateCurrent_MovesExactlyFourCells(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeS))
	before, _ := b.Current()

	if !b.TranslateCurrent(Right) {
		t.Fatal("unobstructed translation should succeed")
	}
	after, _ := b.Current()

	wantCells := map[rustomino.Vec]bool{}
	for _, c := range after.BoardSlots() {
		wantCells[c] = true
		if !b.slots[c.Y][c.X].IsOccupied() {
			t.Errorf("cell %v should be occupied after translation", c)
		}
	}
	for _, c := range before.BoardSlots() {
		if !wantCells[c] && !b.slots[c.Y][c.X].IsEmpty() {
			t.Errorf("vacated cell %v should be empty", c)
		}
	}
	if got := countState(b, SlotOccupied); got != 4 {
		t.Errorf("occupied cells = %d, want 4", got)
	}
}

func TestTranslateCurrent_RejectsWallCollision(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeI))

	// Walk into the left wall; eventually the move must be refused with
	// no mutation.
	moved := 0
	for b.TranslateCurrent(Left) {
		moved++
		if moved > Width {
			t.Fatal("rustomino escaped the left wall")
		}
	}
	before, _ := b.Current()
	if b.TranslateCurrent(Left) {
		t.Error("translation into the wall should fail")
	}
	after, _ := b.Current()
	if before != after {
		t.Error("failed translation must not mutate the rustomino")
	}
	for _, c := range after.BoardSlots() {
		if c.X < 0 {
			t.Errorf("cell %v crossed the wall", c)
		}
	}
}

func TestTranslateCurrent_RejectsLockedCollision(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0)
	b.SetCurrent(rustomino.New(rustomino.TypeO))

	// Drop until resting on the locked row.
	for b.CanFall() {
		b.ApplyGravity()
	}
	cur, _ := b.Current()
	lowest := Height
	for _, c := range cur.BoardSlots() {
		if c.Y < lowest {
			lowest = c.Y
		}
	}
	if lowest != 1 {
		t.Errorf("rustomino rests at row %d, want 1 (on top of locked row 0)", lowest)
	}
	if b.TranslateCurrent(Down) {
		t.Error("translation into locked cells should fail")
	}
}

func TestRotateCurrent_NoWallKick(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeI))

	// A vertical I hugging the left wall has no room to rotate back to
	// horizontal without a kick.
	if !b.RotateCurrent(rustomino.RotateCW) {
		t.Fatal("rotation with headroom should succeed")
	}
	for b.TranslateCurrent(Left) {
	}
	before, _ := b.Current()
	if b.RotateCurrent(rustomino.RotateCW) {
		// A vertical I hugging the wall occupies column 0; the horizontal
		// orientations span columns -2..1 or -1..2 from there.
		t.Error("rotation through the wall should fail without kicks")
	}
	after, _ := b.Current()
	if before != after {
		t.Error("failed rotation must not mutate the rustomino")
	}
}

func TestApplyGravity_TracksCanFall(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeZ))

	steps := 0
	for b.CanFall() {
		b.ApplyGravity()
		steps++
		if steps > Height {
			t.Fatal("gravity never terminated")
		}
	}
	cur, _ := b.Current()
	lowest := Height
	for _, c := range cur.BoardSlots() {
		if c.Y < lowest {
			lowest = c.Y
		}
	}
	if lowest != 0 {
		t.Errorf("rustomino stopped at row %d, want the floor", lowest)
	}
}

func TestHardDrop_MatchesRepeatedGravity(t *testing.T) {
	for _, rt := range rustomino.Types() {
		b := newTestBoard()
		lockRow(b, 0, 4) // uneven surface
		lockRow(b, 1, 4, 5)

		b.SetCurrent(rustomino.New(rt))
		cur, _ := b.Current()
		expected := cur
		for !b.checkCollision(expected.Translated(rustomino.Vec{Y: -1})) {
			expected.Translate(rustomino.Vec{Y: -1})
		}

		b.HardDrop()
		got, _ := b.Current()
		if got.BoardSlots() != expected.BoardSlots() {
			t.Errorf("%v: hard drop landed at %v, repeated gravity says %v",
				rt, got.BoardSlots(), expected.BoardSlots())
		}
	}
}

func TestLock_ConvertsCellsAndClearsGhost(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeL))
	b.HardDrop()
	b.Lock()

	if !b.ReadyForNext() {
		t.Error("board should be ready for next after lock")
	}
	if got := countState(b, SlotLocked); got != 4 {
		t.Errorf("locked cells = %d, want 4", got)
	}
	if got := countState(b, SlotOccupied); got != 0 {
		t.Errorf("occupied cells = %d, want 0 after lock", got)
	}
	if got := countState(b, SlotGhost); got != 0 {
		t.Errorf("ghost cells = %d, want 0 with no active rustomino", got)
	}
	if _, ok := b.Ghost(); ok {
		t.Error("ghost rustomino should be discarded after lock")
	}
}

func TestCompleteLines_TagOnly(t *testing.T) {
	b := newTestBoard()
	if lines := b.CompleteLines(); len(lines) != 0 {
		t.Fatalf("empty board reports complete lines %v", lines)
	}

	// A full row of mixed types counts; a row with one gap does not.
	for x := 0; x < Width; x++ {
		b.slots[0][x] = Slot{State: SlotLocked, Type: rustomino.Types()[x%7]}
	}
	lockRow(b, 1, 3)
	lockRow(b, 2)

	lines := b.CompleteLines()
	if len(lines) != 2 || lines[0] != 0 || lines[1] != 2 {
		t.Errorf("complete lines = %v, want [0 2]", lines)
	}

	// Occupied and ghost tags never complete a row.
	b = newTestBoard()
	for x := 0; x < Width; x++ {
		b.slots[5][x] = Slot{State: SlotOccupied, Type: rustomino.TypeI}
	}
	if lines := b.CompleteLines(); len(lines) != 0 {
		t.Errorf("occupied row reported complete: %v", lines)
	}
}

func TestClearCompletedLines_NoCompleteRowsIsNoop(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0, 9)
	before := b.slots

	if cleared := b.ClearCompletedLines(); len(cleared) != 0 {
		t.Errorf("cleared %v from a board with no complete rows", cleared)
	}
	if b.slots != before {
		t.Error("clear with no complete rows must not mutate the grid")
	}
}

func TestClearCompletedLines_ShiftsRowsDown(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0)
	// Partial rows above that must slide down by one.
	lockRow(b, 1, 0, 1, 2)
	lockRow(b, 2, 5)
	row1 := b.slots[1]
	row2 := b.slots[2]

	cleared := b.ClearCompletedLines()
	if len(cleared) != 1 || cleared[0] != 0 {
		t.Fatalf("cleared = %v, want [0]", cleared)
	}
	if b.slots[0] != row1 {
		t.Error("row 1 should have shifted down to row 0")
	}
	if b.slots[1] != row2 {
		t.Error("row 2 should have shifted down to row 1")
	}
	for x := 0; x < Width; x++ {
		if !b.slots[2][x].IsEmpty() {
			t.Errorf("row 2 cell %d should be empty after the shift", x)
		}
	}
}

func TestClearCompletedLines_NonContiguous(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0)
	lockRow(b, 1, 7) // survives
	lockRow(b, 2)
	lockRow(b, 3, 2, 3) // survives
	row1 := b.slots[1]
	row3 := b.slots[3]

	cleared := b.ClearCompletedLines()
	if len(cleared) != 2 || cleared[0] != 0 || cleared[1] != 2 {
		t.Fatalf("cleared = %v, want [0 2]", cleared)
	}
	if b.slots[0] != row1 {
		t.Error("surviving row 1 should land on row 0")
	}
	if b.slots[1] != row3 {
		t.Error("surviving row 3 should land on row 1")
	}
	if got := countState(b, SlotLocked); got != 9+8 {
		t.Errorf("locked cells after clear = %d, want %d", got, 9+8)
	}
}

func TestClearCompletedLines_BufferRowsCompact(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0)
	// Content resting in the buffer rows falls with everything else.
	b.slots[20][3] = Slot{State: SlotLocked, Type: rustomino.TypeI}
	b.slots[21][3] = Slot{State: SlotLocked, Type: rustomino.TypeI}

	b.ClearCompletedLines()

	if !b.slots[19][3].IsLocked() || !b.slots[20][3].IsLocked() {
		t.Error("buffer-row content should compact downward")
	}
	if !b.slots[21][3].IsEmpty() {
		t.Error("top buffer row should be empty after compaction")
	}
}

func TestGhost_FollowsMovesAndNeverStompsLocked(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0, 0, 1)
	b.SetCurrent(rustomino.New(rustomino.TypeO))

	for b.TranslateCurrent(Left) {
	}
	ghost, ok := b.Ghost()
	if !ok {
		t.Fatal("expected a ghost rustomino")
	}
	// Columns 0-1 of row 0 are open, so the O ghost rests on the floor.
	for _, c := range ghost.BoardSlots() {
		if c.Y > 1 {
			t.Errorf("ghost cell %v should rest in the floor gap", c)
		}
		if b.slots[c.Y][c.X].IsLocked() {
			t.Errorf("ghost painted over a locked cell at %v", c)
		}
	}
	if got := countState(b, SlotGhost); got != 4 {
		t.Errorf("ghost cells = %d, want 4", got)
	}

	// Moving away erases the old silhouette.
	b.TranslateCurrent(Right)
	if got := countState(b, SlotGhost); got != 4 {
		t.Errorf("ghost cells after move = %d, want 4", got)
	}
}

func TestGhost_OverlapsNothingWhenPieceRests(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeT))
	for b.TranslateCurrent(Down) {
	}

	// The ghost now coincides with the rustomino; occupied cells win.
	cur, _ := b.Current()
	for _, c := range cur.BoardSlots() {
		if !b.slots[c.Y][c.X].IsOccupied() {
			t.Errorf("resting rustomino cell %v should stay occupied", c)
		}
	}
	if got := countState(b, SlotGhost); got != 0 {
		t.Errorf("ghost cells = %d, want 0 when the ghost coincides with the rustomino", got)
	}
}

func TestScenario_IPieceDropsToBottomRow(t *testing.T) {
	b := newTestBoard()
	b.SetCurrent(rustomino.New(rustomino.TypeI))
	spawn, _ := b.Current()
	var spawnCols []int
	for _, c := range spawn.BoardSlots() {
		spawnCols = append(spawnCols, c.X)
	}

	b.HardDrop()
	b.Lock()

	for _, x := range spawnCols {
		if !b.slots[0][x].IsLocked() {
			t.Errorf("column %d of row 0 should be locked", x)
		}
	}
	if got := countState(b, SlotLocked); got != 4 {
		t.Errorf("locked cells = %d, want 4", got)
	}
}

func TestScenario_CompletingTheGapClearsRowZero(t *testing.T) {
	b := newTestBoard()
	lockRow(b, 0, 4, 5)
	lockRow(b, 1, 4, 5)

	// Drop an O down the open well at columns 4-5.
	b.SetCurrent(rustomino.New(rustomino.TypeO))
	b.HardDrop()
	b.Lock()

	lines := b.CompleteLines()
	if len(lines) != 2 || lines[0] != 0 || lines[1] != 1 {
		t.Fatalf("complete lines = %v, want [0 1]", lines)
	}
	b.ClearCompletedLines()
	if got := countState(b, SlotLocked); got != 0 {
		t.Errorf("locked cells after clear = %d, want 0", got)
	}
}

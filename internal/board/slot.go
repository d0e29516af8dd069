package board

import "rustris/internal/rustomino"

// SlotState tags what occupies a board cell. Collision and line-completion
// logic compare tags only; the rustomino type a slot carries is a rendering
// concern.
type SlotState int

const (
	SlotEmpty SlotState = iota
	// SlotOccupied marks cells under the currently falling rustomino.
	SlotOccupied
	// SlotLocked marks permanently settled cells.
	SlotLocked
	// SlotGhost marks the projected hard-drop landing silhouette.
	SlotGhost
)

// Slot is one board cell: an explicit state tag plus the type of the
// rustomino that painted it. Type is meaningless when State is SlotEmpty.
type Slot struct {
	State SlotState
	Type  rustomino.Type
}

func (s Slot) IsEmpty() bool    { return s.State == SlotEmpty }
func (s Slot) IsOccupied() bool { return s.State == SlotOccupied }
func (s Slot) IsLocked() bool   { return s.State == SlotLocked }
func (s Slot) IsGhost() bool    { return s.State == SlotGhost }

// Slots is the full board grid, indexed [row][column] with row 0 at the
// bottom. It is an array value, so assignment copies the whole grid.
type Slots [Height][Width]Slot

package rustomino

// Vec is a 2D integer offset or translation on the board grid.
// X grows rightward, Y grows upward (board row 0 is the bottom row).
type Vec struct {
	X, Y int
}

// Add returns the component-wise sum of v and o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Type identifies one of the seven rustomino shapes.
type Type int

const (
	TypeI Type = iota
	TypeO
	TypeT
	TypeS
	TypeZ
	TypeJ
	TypeL

	numTypes = 7
)

func (t Type) String() string {
	switch t {
	case TypeI:
		return "I"
	case TypeO:
		return "O"
	case TypeT:
		return "T"
	case TypeS:
		return "S"
	case TypeZ:
		return "Z"
	case TypeJ:
		return "J"
	case TypeL:
		return "L"
	}
	return "?"
}

// Types returns all seven rustomino types.
func Types() []Type {
	return []Type{TypeI, TypeO, TypeT, TypeS, TypeZ, TypeJ, TypeL}
}

// RotationDirection selects a clockwise or counterclockwise rotation.
type RotationDirection int

const (
	RotateCW RotationDirection = iota
	RotateCCW
)

const numRotations = 4

// Blocks holds the four cells of a rustomino, either as relative offsets
// within the shape's local box or as absolute board positions.
type Blocks [4]Vec

// shapeBlocks holds the relative block offsets for every type and every
// rotation state. Offsets live in a local box (4x4 for I, 2x2 for O, 3x3
// otherwise) with the origin in the bottom-left corner, Y up. There is no
// wall-kick table: a rotation that collides simply fails.
var shapeBlocks = [numTypes][numRotations]Blocks{
	TypeI: {
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{2, 3}, {2, 2}, {2, 1}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{1, 3}, {1, 2}, {1, 1}, {1, 0}},
	},
	TypeO: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	TypeT: {
		{{1, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {1, 1}, {2, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 0}},
		{{1, 2}, {0, 1}, {1, 1}, {1, 0}},
	},
	TypeS: {
		{{1, 2}, {2, 2}, {0, 1}, {1, 1}},
		{{1, 2}, {1, 1}, {2, 1}, {2, 0}},
		{{1, 1}, {2, 1}, {0, 0}, {1, 0}},
		{{0, 2}, {0, 1}, {1, 1}, {1, 0}},
	},
	TypeZ: {
		{{0, 2}, {1, 2}, {1, 1}, {2, 1}},
		{{2, 2}, {1, 1}, {2, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {1, 0}, {2, 0}},
		{{1, 2}, {0, 1}, {1, 1}, {0, 0}},
	},
	TypeJ: {
		{{0, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {2, 2}, {1, 1}, {1, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 0}},
		{{1, 2}, {1, 1}, {0, 0}, {1, 0}},
	},
	TypeL: {
		{{2, 2}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 2}, {1, 1}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 0}},
		{{0, 2}, {1, 2}, {1, 1}, {1, 0}},
	},
}

// spawnTranslations centers each shape horizontally and places all four
// spawn cells inside the two buffer rows above the visible playfield.
var spawnTranslations = [numTypes]Vec{
	TypeI: {3, 18},
	TypeO: {4, 20},
	TypeT: {3, 19},
	TypeS: {3, 19},
	TypeZ: {3, 19},
	TypeJ: {3, 19},
	TypeL: {3, 19},
}

// Rustomino is one falling piece: a shape type, a rotation state selecting
// a row of the shape table, and the translation applied to its offsets.
// It is a small value type; copies are independent.
type Rustomino struct {
	Type        Type
	rotation    int
	translation Vec
}

// New returns a rustomino of the given type at its spawn orientation and
// spawn translation.
func New(t Type) Rustomino {
	return Rustomino{Type: t, translation: spawnTranslations[t]}
}

// Blocks returns the relative block offsets for the current rotation.
func (r Rustomino) Blocks() Blocks {
	return shapeBlocks[r.Type][r.rotation]
}

// BoardSlots returns the four absolute board cells currently occupied.
func (r Rustomino) BoardSlots() Blocks {
	var slots Blocks
	for i, b := range r.Blocks() {
		slots[i] = b.Add(r.translation)
	}
	return slots
}

// Translated returns the absolute cells the rustomino would occupy after
// the given translation, without mutating it.
func (r Rustomino) Translated(delta Vec) Blocks {
	var slots Blocks
	for i, b := range r.Blocks() {
		slots[i] = b.Add(r.translation).Add(delta)
	}
	return slots
}

// Rotated returns the absolute cells the rustomino would occupy after
// rotating in the given direction, without mutating it.
func (r Rustomino) Rotated(direction RotationDirection) Blocks {
	var slots Blocks
	for i, b := range shapeBlocks[r.Type][r.nextRotation(direction)] {
		slots[i] = b.Add(r.translation)
	}
	return slots
}

// Translate commits a translation.
func (r *Rustomino) Translate(delta Vec) {
	r.translation = r.translation.Add(delta)
}

// Rotate commits a rotation.
func (r *Rustomino) Rotate(direction RotationDirection) {
	r.rotation = r.nextRotation(direction)
}

// Reset returns a copy at the type's spawn orientation and translation.
func (r Rustomino) Reset() Rustomino {
	return New(r.Type)
}

func (r Rustomino) nextRotation(direction RotationDirection) int {
	if direction == RotateCW {
		return (r.rotation + 1) % numRotations
	}
	return (r.rotation + numRotations - 1) % numRotations
}

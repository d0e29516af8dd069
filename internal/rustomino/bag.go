package rustomino

import (
	"math/rand"
)

// Bag supplies rustomino types using the 7-bag rule: one of each type is
// added to the pool, the pool is shuffled, and types are drawn without
// replacement until the pool is empty again. Every type therefore appears
// exactly once in each run of seven draws, and the gap between two
// occurrences of the same type never exceeds twelve draws.
type Bag struct {
	pool []Type
	rng  *rand.Rand
}

// NewBag returns a bag drawing from the given random source.
func NewBag(src rand.Source) *Bag {
	return &Bag{
		pool: make([]Type, 0, numTypes),
		rng:  rand.New(src),
	}
}

// Next draws the next rustomino type, refilling the pool first if needed.
func (b *Bag) Next() Type {
	b.fill()
	next := b.pool[len(b.pool)-1]
	b.pool = b.pool[:len(b.pool)-1]
	return next
}

func (b *Bag) fill() {
	if len(b.pool) > 0 {
		return
	}
	b.pool = append(b.pool, Types()...)
	b.rng.Shuffle(len(b.pool), func(i, j int) {
		b.pool[i], b.pool[j] = b.pool[j], b.pool[i]
	})
}

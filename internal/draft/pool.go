package draft

import "math/rand"

// LotPool hands out a non-repeating, lazily consumed sequence of species ids:
// a shuffled permutation of 1..size.
type LotPool struct {
	order []int
	next  int
}

// NewLotPool shuffles 1..size with the given rng.
func NewLotPool(size int, rng *rand.Rand) *LotPool {
	order := make([]int, size)
	for i := range order {
		order[i] = i + 1
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return &LotPool{order: order}
}

// Next draws the next species id. ok is false once the pool is exhausted.
func (p *LotPool) Next() (id int, ok bool) {
	if p.next >= len(p.order) {
		return 0, false
	}
	id = p.order[p.next]
	p.next++
	return id, true
}

// Remaining reports how many ids are still undrawn.
func (p *LotPool) Remaining() int {
	return len(p.order) - p.next
}

// Size is the total pool size.
func (p *LotPool) Size() int {
	return len(p.order)
}

package star

import "fmt"

// Default capacities of the two display variants.
const (
	CapacityColor = 27
	CapacityMono  = 60
)

// Pool is a fixed-capacity set of particle slots.
// Slots are allocated once by NewPool; activation and retirement only flip fields.
type Pool struct {
	slots  []Particle
	active int
}

// NewPool creates a pool with capacity idle slots.
// Capacity is fixed for the lifetime of the pool.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		panic(fmt.Sprintf("star: pool capacity %d < 1", capacity))
	}
	p := &Pool{
		slots: make([]Particle, capacity),
	}
	p.Reset()
	return p
}

// Cap returns the number of slots.
func (p *Pool) Cap() int {
	return len(p.slots)
}

// Active returns the number of active slots.
func (p *Pool) Active() int {
	return p.active
}

// Full reports whether every slot is active.
func (p *Pool) Full() bool {
	return p.active >= len(p.slots)
}

// Slot returns a copy of slot i. Panics if i is out of range.
func (p *Pool) Slot(i int) Particle {
	p.check(i)
	return p.slots[i]
}

// Each calls fn for every slot in ascending index order.
func (p *Pool) Each(fn func(i int, s Particle)) {
	for i := range p.slots {
		fn(i, p.slots[i])
	}
}

// Reset returns every slot to the idle state.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = idle
	}
	p.active = 0
}

// Close releases the slot array. Safe to call more than once.
func (p *Pool) Close() {
	p.slots = nil
	p.active = 0
}

// firstFree returns the lowest idle slot index, or -1 when the pool is full.
func (p *Pool) firstFree() int {
	if p.Full() {
		return -1
	}
	for i := range p.slots {
		if !p.slots[i].Active {
			return i
		}
	}
	return -1
}

// activate stores s into slot i and counts it.
func (p *Pool) activate(i int, s Particle) {
	p.check(i)
	if p.slots[i].Active {
		panic(fmt.Sprintf("star: slot %d already active", i))
	}
	s.Active = true
	p.slots[i] = s
	p.active++
}

// retire frees slot i.
func (p *Pool) retire(i int) {
	p.check(i)
	if !p.slots[i].Active {
		return
	}
	p.slots[i] = idle
	p.active--
}

func (p *Pool) check(i int) {
	if i < 0 || i >= len(p.slots) {
		panic(fmt.Sprintf("star: slot index %d out of range [0, %d)", i, len(p.slots)))
	}
}

package star

// Advance runs the per-frame motion pass over every slot.
// An active particle past the right edge is retired first; survivors move right by
// their radius. Returns the number of particles retired this frame.
func Advance(pool *Pool, v Viewport) int {
	retired := 0
	for i := range pool.slots {
		p := &pool.slots[i]
		if !p.Active {
			continue
		}

		if p.retired(v) {
			pool.retire(i)
			retired++
			continue
		}

		// Proportional speed
		p.X += p.Radius
	}
	return retired
}

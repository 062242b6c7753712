package star

// Field ties a pool to its spawner and viewport.
type Field struct {
	Pool     *Pool
	Spawner  *Spawner
	Viewport Viewport

	frames  uint64
	retired uint64
}

// NewField creates a field with an idle pool of the given capacity.
func NewField(capacity int, v Viewport, sp *Spawner) *Field {
	return &Field{
		Pool:     NewPool(capacity),
		Spawner:  sp,
		Viewport: v,
	}
}

// Update advances one frame: motion and retirement, then at most one spawn.
// A slot retired this frame can be reused by the spawn in the same frame.
func (f *Field) Update() {
	f.retired += uint64(Advance(f.Pool, f.Viewport))
	f.Spawner.Spawn(f.Pool, f.Viewport)
	f.frames++
}

// Stats is a snapshot of the field counters.
type Stats struct {
	Frames   uint64
	Active   int
	Spawned  uint64
	Retired  uint64
	Promoted uint64
}

// Stats returns the current counters.
func (f *Field) Stats() Stats {
	return Stats{
		Frames:   f.frames,
		Active:   f.Pool.Active(),
		Spawned:  f.Spawner.Spawned(),
		Retired:  f.retired,
		Promoted: f.Spawner.Promoted(),
	}
}

// Close releases the pool.
func (f *Field) Close() {
	f.Pool.Close()
}

package star

import "github.com/tomz197/starfield/internal/palette"

// Radius and promotion constants.
const (
	MinRadius          = 1  // Zero-size particles are bumped to this
	MaxStarRadiusColor = 6  // Base radius draw is [0, 6] in the color variant
	MaxStarRadiusMono  = 4  // Base radius draw is [0, 4] in the mono variant
	PromotionThreshold = 6  // Base radius needed before a planet roll
	PromotionOdds      = 4  // A planet roll succeeds 1 time in PromotionOdds
	PlanetRadiusMin    = 8  // Smallest planet
	PlanetRadiusSpan   = 4  // Planet radius is PlanetRadiusMin + [0, PlanetRadiusSpan)
	PlanetRadiusMax    = PlanetRadiusMin + PlanetRadiusSpan - 1
)

// Rand is the random source used by the spawner.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// SpawnOptions tunes the spawner's distributions.
type SpawnOptions struct {
	MaxStarRadius int  // Inclusive upper bound of the base radius draw
	Planets       bool // Whether large stars may be promoted to planets
}

// Spawner activates at most one particle per frame.
type Spawner struct {
	rng  Rand
	opts SpawnOptions

	spawned  uint64
	promoted uint64
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng Rand, opts SpawnOptions) *Spawner {
	if opts.MaxStarRadius < 0 {
		opts.MaxStarRadius = 0
	}
	return &Spawner{
		rng:  rng,
		opts: opts,
	}
}

// Spawn activates the lowest free slot of pool, if any.
// Returns the slot index and true when a particle was spawned.
func (s *Spawner) Spawn(pool *Pool, v Viewport) (int, bool) {
	i := pool.firstFree()
	if i < 0 {
		return -1, false
	}

	p := idle
	p.X = 0
	p.Y = s.rng.Intn(v.Height)
	p.Radius = s.rng.Intn(s.opts.MaxStarRadius + 1)

	if s.opts.Planets && p.Radius >= PromotionThreshold && s.rng.Intn(PromotionOdds) == 0 {
		p.Kind = KindPlanet
		p.Radius = PlanetRadiusMin + s.rng.Intn(PlanetRadiusSpan)
		p.Color = palette.PlanetColors[s.rng.Intn(len(palette.PlanetColors))]
		s.promoted++
	}

	if p.Radius < MinRadius {
		p.Radius++
	}

	pool.activate(i, p)
	s.spawned++
	return i, true
}

// Spawned returns the total number of particles spawned.
func (s *Spawner) Spawned() uint64 {
	return s.spawned
}

// Promoted returns how many spawned particles became planets.
func (s *Spawner) Promoted() uint64 {
	return s.promoted
}

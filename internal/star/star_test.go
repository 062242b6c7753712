package star

import (
	"math/rand"
	"testing"

	"github.com/tomz197/starfield/internal/palette"
)

// randFunc adapts a function to Rand.
type randFunc func(n int) int

func (f randFunc) Intn(n int) int { return f(n) }

// scriptedRand returns vals in order (modulo n), wrapping around.
type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

// fixedRadius returns a Rand that always draws radius r and the top row.
func fixedRadius(r int) Rand {
	return randFunc(func(n int) int {
		if n == MaxStarRadiusColor+1 {
			return r
		}
		return 0
	})
}

var watch = Viewport{Width: 144, Height: 168}

func colorSpawner(rng Rand) *Spawner {
	return NewSpawner(rng, SpawnOptions{MaxStarRadius: MaxStarRadiusColor, Planets: true})
}

func TestNewPoolIdle(t *testing.T) {
	p := NewPool(CapacityColor)
	if p.Cap() != CapacityColor {
		t.Fatalf("Cap() = %d, want %d", p.Cap(), CapacityColor)
	}
	if p.Active() != 0 {
		t.Fatalf("Active() = %d, want 0", p.Active())
	}
	p.Each(func(i int, s Particle) {
		if s != Idle() {
			t.Errorf("slot %d = %+v, want idle", i, s)
		}
		if s.Radius < MinRadius {
			t.Errorf("slot %d radius %d < %d", i, s.Radius, MinRadius)
		}
	})
}

func TestNewPoolInvalidCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewPool(0) did not panic")
		}
	}()
	NewPool(0)
}

func TestSlotOutOfRange(t *testing.T) {
	p := NewPool(3)
	for _, idx := range []int{-1, 3, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Slot(%d) did not panic", idx)
				}
			}()
			p.Slot(idx)
		}()
	}
}

func TestPoolResetAndClose(t *testing.T) {
	p := NewPool(4)
	sp := colorSpawner(fixedRadius(3))
	for i := 0; i < 3; i++ {
		sp.Spawn(p, watch)
	}
	if p.Active() != 3 {
		t.Fatalf("Active() = %d, want 3", p.Active())
	}

	p.Reset()
	if p.Active() != 0 || p.Cap() != 4 {
		t.Fatalf("after Reset: Active=%d Cap=%d, want 0/4", p.Active(), p.Cap())
	}

	p.Close()
	p.Close()
	if _, ok := sp.Spawn(p, watch); ok {
		t.Error("spawned into a closed pool")
	}
}

func TestSpawnFirstFreeSlot(t *testing.T) {
	p := NewPool(5)
	sp := colorSpawner(fixedRadius(2))

	for want := 0; want < 5; want++ {
		i, ok := sp.Spawn(p, watch)
		if !ok || i != want {
			t.Fatalf("Spawn() = (%d, %v), want (%d, true)", i, ok, want)
		}
	}
	if _, ok := sp.Spawn(p, watch); ok {
		t.Fatal("Spawn() succeeded on a full pool")
	}

	p.retire(2)
	i, ok := sp.Spawn(p, watch)
	if !ok || i != 2 {
		t.Fatalf("Spawn() after retire = (%d, %v), want (2, true)", i, ok)
	}
}

func TestSpawnAttributes(t *testing.T) {
	tests := []struct {
		name       string
		vals       []int // y, radius, [promotion roll, planet radius, color]
		wantKind   Kind
		wantRadius int
		wantColor  palette.Color
	}{
		{"zero radius bumped", []int{10, 0}, KindStar, 1, palette.Foreground},
		{"plain star", []int{10, 4}, KindStar, 4, palette.Foreground},
		{"large star failed roll", []int{10, 6, 1}, KindStar, 6, palette.Foreground},
		{"planet smallest", []int{10, 6, 0, 0, 0}, KindPlanet, 8, palette.Red},
		{"planet largest", []int{10, 6, 0, 3, 4}, KindPlanet, 11, palette.ShockingPink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(1)
			sp := colorSpawner(&scriptedRand{vals: tt.vals})
			sp.Spawn(p, watch)

			got := p.Slot(0)
			if !got.Active || got.X != 0 || got.Y != 10 {
				t.Fatalf("slot = %+v, want active at (0, 10)", got)
			}
			if got.Kind != tt.wantKind || got.Radius != tt.wantRadius || got.Color != tt.wantColor {
				t.Errorf("slot = %v r=%d %v, want %v r=%d %v",
					got.Kind, got.Radius, got.Color, tt.wantKind, tt.wantRadius, tt.wantColor)
			}
		})
	}
}

func TestSpawnPlanetsDisabled(t *testing.T) {
	sp := NewSpawner(&scriptedRand{vals: []int{0, 6, 0, 0, 0}}, SpawnOptions{MaxStarRadius: 6})
	p := NewPool(1)
	sp.Spawn(p, watch)
	if got := p.Slot(0); got.Kind != KindStar || got.Radius != 6 {
		t.Errorf("slot = %+v, want star with radius 6", got)
	}
}

func TestAdvanceMonotonicDrift(t *testing.T) {
	f := NewField(CapacityColor, watch, colorSpawner(rand.New(rand.NewSource(7))))

	for frame := 0; frame < 500; frame++ {
		before := make([]Particle, f.Pool.Cap())
		f.Pool.Each(func(i int, s Particle) { before[i] = s })

		Advance(f.Pool, f.Viewport)

		f.Pool.Each(func(i int, s Particle) {
			prev := before[i]
			if !prev.Active || !s.Active {
				return
			}
			if s.X != prev.X+prev.Radius {
				t.Fatalf("frame %d slot %d: X %d -> %d, want +%d", frame, i, prev.X, s.X, prev.Radius)
			}
		})
		f.Spawner.Spawn(f.Pool, f.Viewport)
	}
}

func TestRetirementBound(t *testing.T) {
	widths := []int{1, 7, 144, 200}
	for _, w := range widths {
		for r := 1; r <= PlanetRadiusMax; r++ {
			v := Viewport{Width: w, Height: 168}
			p := NewPool(1)
			p.activate(0, Particle{Radius: r, Kind: KindStar, Color: palette.Foreground})

			advances := 0
			for p.Active() == 1 {
				before := p.Slot(0).X
				Advance(p, v)
				if p.Active() == 1 && p.Slot(0).X != before {
					advances++
				}
				if advances > 10000 {
					t.Fatalf("w=%d r=%d never retired", w, r)
				}
			}

			want := (w + r + r - 1) / r
			if advances != want {
				t.Errorf("w=%d r=%d: retired after %d advances, want %d", w, r, advances, want)
			}
			if got := p.Slot(0); got != Idle() {
				t.Errorf("w=%d r=%d: retired slot = %+v, want idle", w, r, got)
			}
		}
	}
}

func TestRetireResetsPlanet(t *testing.T) {
	p := NewPool(1)
	p.activate(0, Particle{X: 200, Radius: 9, Kind: KindPlanet, Color: palette.BlueMoon})
	if n := Advance(p, watch); n != 1 {
		t.Fatalf("Advance() retired %d, want 1", n)
	}
	got := p.Slot(0)
	if got.Kind != KindStar || got.Color != palette.Foreground || got.Active {
		t.Errorf("retired slot = %+v, want idle star", got)
	}
	if n := Advance(p, watch); n != 0 {
		t.Errorf("second Advance() retired %d, want 0", n)
	}
	if p.Active() != 0 {
		t.Errorf("Active() = %d, want 0", p.Active())
	}
}

func TestSingleSpawnPerFrame(t *testing.T) {
	wide := Viewport{Width: 100000, Height: 168}
	f := NewField(CapacityMono, wide, NewSpawner(rand.New(rand.NewSource(1)), SpawnOptions{MaxStarRadius: MaxStarRadiusMono}))

	for frame := 1; frame <= CapacityMono; frame++ {
		f.Update()
		if f.Pool.Active() != frame {
			t.Fatalf("after %d frames Active() = %d, want %d", frame, f.Pool.Active(), frame)
		}
	}
	f.Update()
	if f.Pool.Active() != CapacityMono {
		t.Errorf("saturated pool Active() = %d, want %d", f.Pool.Active(), CapacityMono)
	}
}

func TestCapacityInvariant(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		f := NewField(CapacityColor, watch, colorSpawner(rand.New(rand.NewSource(seed))))
		for frame := 0; frame < 2000; frame++ {
			f.Update()
			if f.Pool.Active() > f.Pool.Cap() {
				t.Fatalf("seed %d frame %d: Active() = %d > Cap() %d", seed, frame, f.Pool.Active(), f.Pool.Cap())
			}
			counted := 0
			f.Pool.Each(func(_ int, s Particle) {
				if s.Active {
					counted++
				}
				if s.Radius < MinRadius {
					t.Fatalf("seed %d frame %d: radius %d", seed, frame, s.Radius)
				}
			})
			if counted != f.Pool.Active() {
				t.Fatalf("seed %d frame %d: counted %d active, Active() = %d", seed, frame, counted, f.Pool.Active())
			}
		}
	}
}

func TestPromotionRate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sp := colorSpawner(rng)
	p := NewPool(1)

	const trials = 200000
	for i := 0; i < trials; i++ {
		sp.Spawn(p, watch)
		s := p.Slot(0)
		switch s.Kind {
		case KindPlanet:
			if s.Radius < PlanetRadiusMin || s.Radius > PlanetRadiusMax {
				t.Fatalf("planet radius %d outside [%d, %d]", s.Radius, PlanetRadiusMin, PlanetRadiusMax)
			}
			if !s.Color.IsPlanet() {
				t.Fatalf("planet color %v not in planet palette", s.Color)
			}
		case KindStar:
			if s.Color.IsPlanet() {
				t.Fatalf("star has planet color %v", s.Color)
			}
			if s.Radius > MaxStarRadiusColor {
				t.Fatalf("star radius %d > %d", s.Radius, MaxStarRadiusColor)
			}
		}
		p.retire(0)
	}

	got := float64(sp.Promoted()) / float64(sp.Spawned())
	want := 1.0 / float64(MaxStarRadiusColor+1) / PromotionOdds
	if got < want*0.9 || got > want*1.1 {
		t.Errorf("promotion rate = %.4f, want ~%.4f", got, want)
	}
}

func TestPlanetColorsAllReachable(t *testing.T) {
	sp := colorSpawner(rand.New(rand.NewSource(3)))
	p := NewPool(1)
	seen := map[palette.Color]bool{}
	for i := 0; i < 100000 && len(seen) < len(palette.PlanetColors); i++ {
		sp.Spawn(p, watch)
		if s := p.Slot(0); s.Kind == KindPlanet {
			seen[s.Color] = true
		}
		p.retire(0)
	}
	if len(seen) != len(palette.PlanetColors) {
		t.Errorf("saw %d planet colors, want %d", len(seen), len(palette.PlanetColors))
	}
}

func TestWatchScenario(t *testing.T) {
	// y drawn from the seeded source, radius always 1: nothing retires before frame 146
	seeded := rand.New(rand.NewSource(2015))
	rng := randFunc(func(n int) int {
		if n == MaxStarRadiusColor+1 {
			return 1
		}
		return seeded.Intn(n)
	})
	f := NewField(CapacityColor, watch, colorSpawner(rng))

	f.Update()
	if f.Pool.Active() != 1 {
		t.Fatalf("after 1 frame Active() = %d, want 1", f.Pool.Active())
	}
	if s := f.Pool.Slot(0); !s.Active || s.X != 0 {
		t.Fatalf("slot 0 = %+v, want active at X=0", s)
	}

	for frame := 2; frame <= CapacityColor; frame++ {
		f.Update()
	}
	if f.Pool.Active() != CapacityColor {
		t.Fatalf("after %d frames Active() = %d, want %d", CapacityColor, f.Pool.Active(), CapacityColor)
	}

	for frame := 0; frame < 1000; frame++ {
		f.Update()
		if f.Pool.Active() != CapacityColor {
			t.Fatalf("steady state frame %d: Active() = %d, want %d", frame, f.Pool.Active(), CapacityColor)
		}
	}

	st := f.Stats()
	if st.Spawned != st.Retired+uint64(st.Active) {
		t.Errorf("stats spawned=%d retired=%d active=%d do not balance", st.Spawned, st.Retired, st.Active)
	}
}

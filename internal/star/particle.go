// Package star implements the starfield particle engine: a fixed pool of drifting
// square sprites that are spawned at the left edge and retired past the right edge.
package star

import "github.com/tomz197/starfield/internal/palette"

// Kind distinguishes plain stars from promoted planets.
type Kind uint8

const (
	KindStar   Kind = iota // Small, foreground colored
	KindPlanet             // Rare, larger, planet palette colored
)

func (k Kind) String() string {
	if k == KindPlanet {
		return "planet"
	}
	return "star"
}

// Particle is one pool slot.
type Particle struct {
	X      int           // Left edge, grows rightward
	Y      int           // Top edge, in [0, viewport height)
	Radius int           // Side length and per-frame speed, always >= 1
	Active bool          // False when the slot is free
	Kind   Kind          // Star or planet
	Color  palette.Color // Fill color
}

// idle is the value every free slot holds.
var idle = Particle{
	Radius: MinRadius,
	Kind:   KindStar,
	Color:  palette.Foreground,
}

// Idle returns the neutral value of a free slot.
func Idle() Particle {
	return idle
}

// Viewport is the fixed drawing area in display units.
type Viewport struct {
	Width  int
	Height int
}

// retired reports whether p has scrolled fully past the right edge of v.
func (p Particle) retired(v Viewport) bool {
	return p.X >= v.Width+p.Radius
}

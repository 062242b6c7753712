// Package paint translates starfield pool state into fill-rectangle draw calls.
package paint

import (
	"github.com/tomz197/starfield/internal/palette"
	"github.com/tomz197/starfield/internal/star"
)

// Command is one axis-aligned filled rectangle in viewport units.
type Command struct {
	X, Y  int
	W, H  int
	Color palette.Color
}

// Surface receives fill-rectangle calls during a paint pass.
type Surface interface {
	FillRect(x, y, w, h int, c palette.Color)
}

// Commands appends one command per active slot of pool to dst, in slot order.
// The pool is only read.
func Commands(pool *star.Pool, dst []Command) []Command {
	pool.Each(func(_ int, p star.Particle) {
		if !p.Active {
			return
		}
		dst = append(dst, Command{
			X:     p.X,
			Y:     p.Y,
			W:     p.Radius,
			H:     p.Radius,
			Color: p.Color,
		})
	})
	return dst
}

// Draw emits the fill calls for every active slot of pool onto s, in slot order.
func Draw(s Surface, pool *star.Pool) {
	pool.Each(func(_ int, p star.Particle) {
		if p.Active {
			s.FillRect(p.X, p.Y, p.Radius, p.Radius, p.Color)
		}
	})
}

// Recorder is a Surface that keeps every call it receives.
type Recorder struct {
	Calls []Command
}

// FillRect records the call.
func (r *Recorder) FillRect(x, y, w, h int, c palette.Color) {
	r.Calls = append(r.Calls, Command{X: x, Y: y, W: w, H: h, Color: c})
}

// Reset drops recorded calls, keeping capacity.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Ensure Recorder satisfies Surface.
var _ Surface = (*Recorder)(nil)

package draw

import "github.com/tomz197/starfield/internal/palette"

// Align positions label text inside its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// start returns the first column for n runes between columns left and right.
func (a Align) start(left, right, n int) int {
	switch a {
	case AlignCenter:
		return left + (right-left-n)/2
	case AlignRight:
		return right - n
	}
	return left
}

// Label is text anchored in logical viewport coordinates.
// Lines are separated by '\n' and stack on consecutive terminal rows.
type Label struct {
	X, Y  int // Top-left of the box
	W     int // Box width, used for center/right alignment
	Text  string
	Align Align
	Color palette.Color
}

// Package clock formats the digital clock drawn over the starfield.
package clock

import (
	"time"

	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/palette"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placement selects how the clock sits on the viewport.
type Placement int

const (
	// Overlay draws a single "HH:MM" line over the stars.
	Overlay Placement = iota
	// Separate draws the date top-right and a stacked time bottom-left.
	Separate
)

// ParsePlacement maps a config string to a Placement. Anything but "separate" is Overlay.
func ParsePlacement(s string) Placement {
	if s == "separate" {
		return Separate
	}
	return Overlay
}

// Rand is the subset of math/rand used to pick the clock color.
type Rand interface {
	Intn(n int) int
}

// Style controls formatting.
type Style struct {
	Hour24    bool
	ShowDate  bool
	Placement Placement
	Mode      palette.Mode
}

// Face is one sample of the clock.
type Face struct {
	Time  string
	Date  string // empty when the date is hidden
	Color palette.Color
}

const layoutDate = "Mon Jan _2"

var upper = cases.Upper(language.Und)

// Formatter renders faces in a fixed style.
type Formatter struct {
	style Style
	rng   Rand
}

// NewFormatter creates a formatter. rng is only consulted in color mode.
func NewFormatter(style Style, rng Rand) *Formatter {
	return &Formatter{style: style, rng: rng}
}

// Format samples t. In color mode each call draws a fresh color from the clock palette.
func (f *Formatter) Format(t time.Time) Face {
	hour := "03"
	if f.style.Hour24 {
		hour = "15"
	}
	sep := ":"
	if f.style.Placement == Separate {
		sep = "\n"
	}

	face := Face{
		Time:  t.Format(hour + sep + "04"),
		Color: palette.Foreground,
	}
	if f.style.ShowDate {
		face.Date = upper.String(t.Format(layoutDate))
	}
	if f.style.Mode == palette.Full && f.rng != nil {
		face.Color = palette.ClockColors[f.rng.Intn(len(palette.ClockColors))]
	}
	return face
}

// Labels positions face on a width x height viewport.
func (f *Formatter) Labels(face Face, width, height int) []draw.Label {
	labels := make([]draw.Label, 0, 2)
	if face.Date != "" {
		labels = append(labels, draw.Label{
			X: 1, Y: 12, W: width - 12,
			Text:  face.Date,
			Align: draw.AlignRight,
			Color: face.Color,
		})
	}
	if f.style.Placement == Separate {
		labels = append(labels, draw.Label{
			X: 1, Y: height - 61, W: 60,
			Text:  face.Time,
			Align: draw.AlignCenter,
			Color: face.Color,
		})
	} else {
		labels = append(labels, draw.Label{
			X: 11, Y: 50, W: width - 14,
			Text:  face.Time,
			Align: draw.AlignLeft,
			Color: face.Color,
		})
	}
	return labels
}

// UntilNextMinute returns the delay from t to the start of the following minute.
func UntilNextMinute(t time.Time) time.Duration {
	return t.Truncate(time.Minute).Add(time.Minute).Sub(t)
}

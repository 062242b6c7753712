// Package palette defines the fixed display colors used by the starfield and clock.
package palette

import "fmt"

// Color is an index into the fixed display palette.
// The zero value is Clear, which draws nothing.
type Color uint8

const (
	Clear Color = iota // No color (transparent pixel)
	Black
	White

	// Planet colors
	Red
	Rajah
	BrightGreen
	BlueMoon
	ShockingPink

	// Clock colors
	VividCerulean
	ElectricBlue
	MediumSpringGreen
	Yellow
	RichBrilliantLavender

	colorCount
)

// RGB holds 8-bit color channels.
type RGB struct {
	R, G, B uint8
}

var rgbTable = [colorCount]RGB{
	Clear:                 {0x00, 0x00, 0x00},
	Black:                 {0x00, 0x00, 0x00},
	White:                 {0xFF, 0xFF, 0xFF},
	Red:                   {0xFF, 0x00, 0x00},
	Rajah:                 {0xFF, 0xAA, 0x55},
	BrightGreen:           {0x55, 0xFF, 0x00},
	BlueMoon:              {0x00, 0x55, 0xFF},
	ShockingPink:          {0xFF, 0x55, 0xFF},
	VividCerulean:         {0x00, 0xAA, 0xFF},
	ElectricBlue:          {0x55, 0xFF, 0xFF},
	MediumSpringGreen:     {0x55, 0xFF, 0xAA},
	Yellow:                {0xFF, 0xFF, 0x00},
	RichBrilliantLavender: {0xFF, 0xAA, 0xFF},
}

var names = [colorCount]string{
	Clear:                 "clear",
	Black:                 "black",
	White:                 "white",
	Red:                   "red",
	Rajah:                 "rajah",
	BrightGreen:           "bright-green",
	BlueMoon:              "blue-moon",
	ShockingPink:          "shocking-pink",
	VividCerulean:         "vivid-cerulean",
	ElectricBlue:          "electric-blue",
	MediumSpringGreen:     "medium-spring-green",
	Yellow:                "yellow",
	RichBrilliantLavender: "rich-brilliant-lavender",
}

// PlanetColors are the colors a promoted planet may take.
var PlanetColors = [...]Color{Red, Rajah, BrightGreen, BlueMoon, ShockingPink}

// ClockColors are the colors the clock text cycles through in the color variant.
var ClockColors = [...]Color{VividCerulean, ElectricBlue, MediumSpringGreen, Yellow, RichBrilliantLavender}

// Foreground is the color of plain stars and of the mono clock.
const Foreground = White

// Background is the window background.
const Background = Black

// RGB returns the channel values for c. Unknown colors map to black.
func (c Color) RGB() RGB {
	if c >= colorCount {
		return RGB{}
	}
	return rgbTable[c]
}

// Visible reports whether c paints anything.
func (c Color) Visible() bool {
	return c != Clear && c < colorCount
}

// IsPlanet reports whether c belongs to the planet palette.
func (c Color) IsPlanet() bool {
	for _, p := range PlanetColors {
		if p == c {
			return true
		}
	}
	return false
}

func (c Color) String() string {
	if c >= colorCount {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return names[c]
}

// Mode selects between the monochrome and the color palette.
type Mode int

const (
	Mono Mode = iota
	Full
)

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "mono":
		return Mono, nil
	case "color":
		return Full, nil
	}
	return Mono, fmt.Errorf("unknown palette mode %q", s)
}

func (m Mode) String() string {
	if m == Full {
		return "color"
	}
	return "mono"
}

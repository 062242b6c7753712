package draw

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/starfield/internal/palette"
)

// Screen draws the viewport onto a tcell screen.
type Screen struct {
	screen tcell.Screen
	canvas *Canvas

	viewWidth  int
	viewHeight int
	maxCols    int
	maxRows    int

	termWidth  int
	termHeight int
}

// NewTcellScreen creates and initializes the default tcell screen.
func NewTcellScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return s, nil
}

// NewScreen wraps an initialized tcell screen as a display for a viewWidth x viewHeight viewport.
func NewScreen(s tcell.Screen, viewWidth, viewHeight, maxCols, maxRows int) *Screen {
	d := &Screen{
		screen:     s,
		viewWidth:  viewWidth,
		viewHeight: viewHeight,
		maxCols:    maxCols,
		maxRows:    maxRows,
	}
	d.termWidth, d.termHeight = s.Size()
	cols, rows, offCol, offRow := Fit(d.termWidth, d.termHeight, viewWidth, viewHeight, maxCols, maxRows)
	d.canvas = NewScaledCanvas(cols, rows, float64(viewWidth), float64(viewHeight))
	d.canvas.SetOffset(offCol, offRow)

	s.HideCursor()
	s.SetStyle(tcell.StyleDefault.Background(tcellColor(palette.Background)))
	s.Clear()
	return d
}

// Begin starts a frame, following screen resizes.
func (d *Screen) Begin() {
	if width, height := d.screen.Size(); width != d.termWidth || height != d.termHeight {
		d.termWidth, d.termHeight = width, height
		cols, rows, offCol, offRow := Fit(width, height, d.viewWidth, d.viewHeight, d.maxCols, d.maxRows)
		d.canvas.Resize(cols, rows)
		d.canvas.SetOffset(offCol, offRow)
		d.screen.Clear()
	}
	d.canvas.Clear()
}

// FillRect draws a filled rectangle in viewport units.
func (d *Screen) FillRect(x, y, w, h int, c palette.Color) {
	d.canvas.FillRect(x, y, w, h, c)
}

// DrawLabel draws text on top of the sprites.
func (d *Screen) DrawLabel(l Label) {
	d.canvas.DrawLabel(l)
}

// Present copies the composed canvas to the screen and shows it.
func (d *Screen) Present() error {
	offCol, offRow := d.canvas.OffsetCol(), d.canvas.OffsetRow()
	for row := 0; row < d.canvas.TerminalHeight(); row++ {
		for col := 0; col < d.canvas.TerminalWidth(); col++ {
			cell := d.canvas.CellAt(col, row)
			d.screen.SetContent(col+offCol, row+offRow, cell.Rune, nil, cellStyle(cell))
		}
	}
	d.screen.Show()
	return nil
}

// Close finalizes the screen.
func (d *Screen) Close() error {
	d.screen.Fini()
	return nil
}

// Canvas exposes the underlying canvas.
func (d *Screen) Canvas() *Canvas {
	return d.canvas
}

func cellStyle(c Cell) tcell.Style {
	bg := c.Bg
	if bg == palette.Clear {
		bg = palette.Background
	}
	style := tcell.StyleDefault.Background(tcellColor(bg))
	if c.Fg.Visible() {
		style = style.Foreground(tcellColor(c.Fg))
	}
	return style
}

func tcellColor(c palette.Color) tcell.Color {
	rgb := c.RGB()
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}

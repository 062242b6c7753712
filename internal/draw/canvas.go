// Package draw renders the starfield viewport onto terminals, either as raw ANSI
// half-block output or through a tcell screen.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/starfield/internal/palette"
)

// Cell is one composed terminal cell.
type Cell struct {
	Rune rune
	Fg   palette.Color
	Bg   palette.Color // Clear means the window background
}

// blank is an empty cell.
var blank = Cell{Rune: BlockEmpty}

// Canvas is a colored drawing buffer with 2x vertical resolution using half-block characters.
// Drawing happens in logical viewport units that are scaled onto terminal pixels.
type Canvas struct {
	termWidth      int             // Actual terminal columns
	termHeight     int             // Actual terminal rows
	subPixelHeight int             // termHeight * 2
	pixels         []palette.Color // Flat slice: [y * termWidth + x], Clear if unset
	text           []Cell          // Text overlay per terminal cell, Rune 0 if unset

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Viewport width
	logicalHeight float64 // Viewport height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area inside a larger terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Last emitted cells, used to write only what changed
	drawn     []Cell
	fullFrame bool

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the viewport; termWidth/Height are the terminal cells used.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		subPixelHeight := termHeight * 2
		c.pixels = make([]palette.Color, subPixelHeight*termWidth)
		c.text = make([]Cell, termHeight*termWidth)
		c.drawn = make([]Cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.fullFrame = true
	}

	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.fullFrame = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	c.fullFrame = true
}

// Clear resets all pixels and text in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
	clear(c.text)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col palette.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Pixel returns the color at terminal pixel (x, y).
func (c *Canvas) Pixel(x, y int) palette.Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return palette.Clear
	}
	return c.pixels[y*c.termWidth+x]
}

// FillRect fills a rectangle given in logical coordinates.
// Anything that overlaps the viewport covers at least one pixel.
func (c *Canvas) FillRect(x, y, w, h int, col palette.Color) {
	if w <= 0 || h <= 0 || !col.Visible() {
		return
	}

	x0 := int(math.Floor(float64(x) * c.scaleX))
	y0 := int(math.Floor(float64(y) * c.scaleY))
	x1 := int(math.Ceil(float64(x+w) * c.scaleX))
	y1 := int(math.Ceil(float64(y+h) * c.scaleY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	x0 = max(x0, 0)
	y0 = max(y0, 0)
	x1 = min(x1, c.termWidth)
	y1 = min(y1, c.subPixelHeight)

	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
}

// DrawLabel places label text on the overlay layer.
func (c *Canvas) DrawLabel(l Label) {
	if l.Text == "" {
		return
	}
	col, row := c.LogicalToCell(float64(l.X), float64(l.Y))
	right, _ := c.LogicalToCell(float64(l.X+l.W), float64(l.Y))

	for i, line := range strings.Split(l.Text, "\n") {
		runes := []rune(line)
		start := l.Align.start(col, right, len(runes))
		r := row + i
		if r < 0 || r >= c.termHeight {
			continue
		}
		for j, ch := range runes {
			x := start + j
			if x < 0 || x >= c.termWidth {
				continue
			}
			c.text[r*c.termWidth+x] = Cell{Rune: ch, Fg: l.Color}
		}
	}
}

// CellAt composes the pixel pair and text overlay at terminal cell (col, row), 0-based.
func (c *Canvas) CellAt(col, row int) Cell {
	if t := c.text[row*c.termWidth+col]; t.Rune != 0 {
		return t
	}

	top := c.pixels[row*2*c.termWidth+col]
	bottom := palette.Clear
	if row*2+1 < c.subPixelHeight {
		bottom = c.pixels[(row*2+1)*c.termWidth+col]
	}

	switch {
	case top.Visible() && bottom.Visible() && top == bottom:
		return Cell{Rune: BlockFull, Fg: top}
	case top.Visible() && bottom.Visible():
		return Cell{Rune: BlockUpperHalf, Fg: top, Bg: bottom}
	case top.Visible():
		return Cell{Rune: BlockUpperHalf, Fg: top}
	case bottom.Visible():
		return Cell{Rune: BlockLowerHalf, Fg: bottom}
	}
	return blank
}

// Render writes the cells that changed since the last Render using ANSI sequences.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg palette.Color
	styled := false

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cell := c.CellAt(col, row)
			idx := row*c.termWidth + col
			if !c.fullFrame && c.drawn[idx] == cell {
				continue
			}
			c.drawn[idx] = cell

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			if !styled || cell.Fg != fg || cell.Bg != bg {
				c.writeStyle(cell.Fg, cell.Bg)
				fg, bg, styled = cell.Fg, cell.Bg, true
			}
			c.renderBuf.WriteRune(cell.Rune)
		}
	}
	c.fullFrame = false

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ansiReset)
	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) writeStyle(fg, bg palette.Color) {
	if bg == palette.Clear {
		bg = palette.Background
	}
	c.renderBuf.WriteString(ansiReset)
	if fg.Visible() {
		c.writeRGB("\033[38;2;", fg.RGB())
	}
	c.writeRGB("\033[48;2;", bg.RGB())
}

func (c *Canvas) writeRGB(prefix string, rgb palette.RGB) {
	c.renderBuf.WriteString(prefix)
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(rgb.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(rgb.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(rgb.B), 10))
	c.renderBuf.WriteByte('m')
}

// TerminalWidth returns the terminal column count used by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count used by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToCell converts logical coordinates to a 0-based canvas cell (col, row).
func (c *Canvas) LogicalToCell(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px, py / 2
}

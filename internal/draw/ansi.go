package draw

import (
	"io"

	"github.com/tomz197/starfield/internal/palette"
)

// Terminal draws the viewport onto a raw ANSI stream such as a local TTY or an SSH session.
type Terminal struct {
	cw       *ChunkWriter
	canvas   *Canvas
	sizeFunc TermSizeFunc

	viewWidth  int
	viewHeight int
	maxCols    int
	maxRows    int

	termWidth  int
	termHeight int
}

// NewTerminal creates a terminal display for a viewWidth x viewHeight viewport.
// maxCols/maxRows clamp the render area (0 means unlimited).
func NewTerminal(w io.Writer, sizeFunc TermSizeFunc, viewWidth, viewHeight, maxCols, maxRows int) *Terminal {
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	t := &Terminal{
		cw:         NewChunkWriter(w),
		sizeFunc:   sizeFunc,
		viewWidth:  viewWidth,
		viewHeight: viewHeight,
		maxCols:    maxCols,
		maxRows:    maxRows,
		termWidth:  80,
		termHeight: 24,
	}
	if width, height, err := sizeFunc(); err == nil {
		t.termWidth, t.termHeight = width, height
	}
	cols, rows, offCol, offRow := Fit(t.termWidth, t.termHeight, viewWidth, viewHeight, maxCols, maxRows)
	t.canvas = NewScaledCanvas(cols, rows, float64(viewWidth), float64(viewHeight))
	t.canvas.SetOffset(offCol, offRow)
	return t
}

// Open hides the cursor and clears the terminal.
func (t *Terminal) Open() error {
	HideCursor(t.cw)
	ClearScreen(t.cw)
	return t.cw.Flush()
}

// Begin starts a frame, following terminal resizes.
func (t *Terminal) Begin() {
	if width, height, err := t.sizeFunc(); err == nil && (width != t.termWidth || height != t.termHeight) {
		t.termWidth, t.termHeight = width, height
		cols, rows, offCol, offRow := Fit(width, height, t.viewWidth, t.viewHeight, t.maxCols, t.maxRows)
		// Remove residual cells outside the new canvas area
		ClearScreen(t.cw)
		t.canvas.Resize(cols, rows)
		t.canvas.SetOffset(offCol, offRow)
		t.canvas.ForceRedraw()
	}
	t.canvas.Clear()
}

// FillRect draws a filled rectangle in viewport units.
func (t *Terminal) FillRect(x, y, w, h int, c palette.Color) {
	t.canvas.FillRect(x, y, w, h, c)
}

// DrawLabel draws text on top of the sprites.
func (t *Terminal) DrawLabel(l Label) {
	t.canvas.DrawLabel(l)
}

// Present writes the changed cells to the stream.
func (t *Terminal) Present() error {
	t.canvas.Render(t.cw)
	return t.cw.Flush()
}

// Close clears the terminal and restores the cursor.
func (t *Terminal) Close() error {
	ClearScreen(t.cw)
	ShowCursor(t.cw)
	return t.cw.Flush()
}

// Canvas exposes the underlying canvas.
func (t *Terminal) Canvas() *Canvas {
	return t.canvas
}

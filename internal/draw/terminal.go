package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

const ansiReset = "\033[0m"

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates text for terminal output and writes in chunks for optimal
// network flow (e.g. over SSH). Accumulate with Write/WriteString, then Flush to
// write to the underlying writer. Implements io.Writer for Canvas.Render.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{
		bufw: bufio.NewWriterSize(w, 8192),
	}
}

// Write implements io.Writer for use with Canvas.Render and other writers.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, ansiReset+"\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// Fit computes the largest render area that keeps the viewport's aspect ratio inside a
// termWidth x termHeight terminal (half-block pixels are treated as square), optionally
// clamped to maxCols x maxRows (0 means unlimited), and the offsets that center it.
func Fit(termWidth, termHeight, viewWidth, viewHeight, maxCols, maxRows int) (cols, rows, offsetCol, offsetRow int) {
	availCols, availRows := termWidth, termHeight
	if maxCols > 0 && availCols > maxCols {
		availCols = maxCols
	}
	if maxRows > 0 && availRows > maxRows {
		availRows = maxRows
	}
	if availCols < 1 || availRows < 1 || viewWidth < 1 || viewHeight < 1 {
		return max(availCols, 1), max(availRows, 1), 0, 0
	}

	scale := min(float64(availCols)/float64(viewWidth), float64(availRows*2)/float64(viewHeight))
	cols = max(int(float64(viewWidth)*scale), 1)
	rows = max(int(float64(viewHeight)*scale/2), 1)

	offsetCol = (termWidth - cols) / 2
	offsetRow = (termHeight - rows) / 2
	return cols, rows, offsetCol, offsetRow
}

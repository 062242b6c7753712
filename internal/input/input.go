// Package input watches the host terminal for the quit keys.
package input

import (
	"errors"
	"io"

	"github.com/gdamore/tcell/v2"
)

// ErrQuitKey is reported when the viewer presses a quit key.
var ErrQuitKey = errors.New("quit key pressed")

// QuitRequested reports whether buf, one read from a raw terminal, holds a quit key:
// q/Q, Ctrl-C or a bare Escape. Escape sequences such as arrow keys are skipped.
func QuitRequested(buf []byte) bool {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <params> <final>
		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			i += 2
			for i < len(buf) && (buf[i] < 0x40 || buf[i] > 0x7e) {
				i++
			}
			continue
		}

		switch b {
		case 'q', 'Q', '\x03', '\x1b':
			return true
		}
	}
	return false
}

// Watch reads r on its own goroutine until a quit key or a read error, then calls quit
// exactly once with ErrQuitKey or the read error (io.EOF when the client hangs up).
func Watch(r io.Reader, quit func(error)) {
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 && QuitRequested(buf[:n]) {
				quit(ErrQuitKey)
				return
			}
			if err != nil {
				quit(err)
				return
			}
		}
	}()
}

// WatchScreen polls s until a quit key or until the screen is finalized.
// onResize runs for every resize event; quit is called at most once.
func WatchScreen(s tcell.Screen, onResize func(), quit func(error)) {
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
					quit(ErrQuitKey)
					return
				}
			case *tcell.EventResize:
				if onResize != nil {
					onResize()
				}
			}
		}
	}()
}

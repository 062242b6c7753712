// Package loop runs a starfield view: the event loop that serializes every callback,
// the frame scheduler and the view lifecycle.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQuit is returned by Run when Quit was called without a cause.
var ErrQuit = errors.New("loop: quit")

const eventQueueSize = 64

// EventLoop runs posted callbacks one at a time on the goroutine that calls Run.
// Post, TryPost, AfterFunc and Quit are safe for concurrent use.
type EventLoop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
	err    error
}

// NewEventLoop creates a stopped loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{
		events: make(chan func(), eventQueueSize),
		done:   make(chan struct{}),
	}
}

// Post queues fn for the loop goroutine. It reports false, without blocking, once the
// loop has quit.
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// TryPost queues fn only if there is room and reports whether it did. Callbacks running
// on the loop goroutine must use it instead of Post.
func (l *EventLoop) TryPost(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	default:
		return false
	}
}

// AfterFunc runs fn on the loop after d. It satisfies the AfterFunc type.
func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Quit stops the loop. The first call wins; a nil err is recorded as ErrQuit.
func (l *EventLoop) Quit(err error) {
	l.once.Do(func() {
		if err == nil {
			err = ErrQuit
		}
		l.err = err
		close(l.done)
	})
}

// Done is closed when the loop has quit.
func (l *EventLoop) Done() <-chan struct{} {
	return l.done
}

// Err returns the quit cause, or nil while the loop is running.
func (l *EventLoop) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Run processes events until ctx is cancelled or Quit is called and returns the cause.
// Events still queued at that point are dropped.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Quit(ctx.Err())
			return l.Err()
		case <-l.done:
			return l.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

// Drain runs every queued event on the calling goroutine without blocking and returns
// how many ran. Events posted by those events run too.
func (l *EventLoop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.events:
			fn()
			n++
		default:
			return n
		}
	}
}

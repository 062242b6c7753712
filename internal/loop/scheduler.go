package loop

import "time"

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn to run once after d.
type AfterFunc func(d time.Duration, fn func()) Timer

// State of a Scheduler.
type State int

const (
	StateIdle State = iota
	StateArmed
)

func (s State) String() string {
	if s == StateArmed {
		return "armed"
	}
	return "idle"
}

// Scheduler drives frames with a single-shot timer that is re-armed after every frame.
// It is not safe for concurrent use: every method and every timer callback must run on
// the same goroutine, normally the EventLoop.
type Scheduler struct {
	interval time.Duration
	after    AfterFunc
	frame    func()

	state  State
	timer  Timer
	gen    uint64
	frames uint64
}

// NewScheduler creates an idle scheduler calling frame every interval.
func NewScheduler(interval time.Duration, after AfterFunc, frame func()) *Scheduler {
	if after == nil || frame == nil {
		panic("loop: scheduler needs a timer primitive and a frame callback")
	}
	return &Scheduler{
		interval: interval,
		after:    after,
		frame:    frame,
	}
}

// Start arms the first frame. Starting an armed scheduler does nothing.
func (s *Scheduler) Start() {
	if s.state == StateArmed {
		return
	}
	s.state = StateArmed
	s.arm()
}

// Stop cancels the pending frame. Safe to call repeatedly or before Start.
func (s *Scheduler) Stop() {
	if s.state == StateIdle {
		return
	}
	s.state = StateIdle
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) arm() {
	s.gen++
	gen := s.gen
	t := s.after(s.interval, func() { s.fire(gen) })
	if t == nil {
		panic("loop: timer primitive returned nil")
	}
	s.timer = t
}

// fire ignores callbacks from timers that were cancelled after they had already fired.
func (s *Scheduler) fire(gen uint64) {
	if s.state != StateArmed || gen != s.gen {
		return
	}
	s.timer = nil
	s.frame()
	s.frames++
	// The frame callback may have stopped us
	if s.state == StateArmed && gen == s.gen {
		s.arm()
	}
}

// State reports whether a frame is pending.
func (s *Scheduler) State() State {
	return s.state
}

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Interval returns the frame interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

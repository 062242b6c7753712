package loop

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/starfield/internal/clock"
	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/draw"
	"github.com/tomz197/starfield/internal/paint"
	"github.com/tomz197/starfield/internal/star"
	"go.uber.org/zap"
)

// Display is the repaint surface a view draws into.
type Display interface {
	paint.Surface
	Begin()
	DrawLabel(l draw.Label)
	Present() error
	Close() error
}

var (
	_ Display = (*draw.Terminal)(nil)
	_ Display = (*draw.Screen)(nil)
)

// Rand is the random source shared by the spawner and the clock color.
type Rand interface {
	Intn(n int) int
}

// ViewOptions configures a view. Zero After, Now, Rand and Logger take defaults.
type ViewOptions struct {
	Capacity int
	Interval time.Duration
	Viewport star.Viewport
	Spawn    star.SpawnOptions
	Clock    clock.Style

	After  AfterFunc
	Now    func() time.Time
	Rand   Rand
	Logger *zap.Logger
}

// OptionsFromConfig maps a validated config onto view options.
func OptionsFromConfig(cfg *config.Config) ViewOptions {
	seed := cfg.Starfield.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return ViewOptions{
		Capacity: cfg.Starfield.Capacity,
		Interval: cfg.Starfield.FrameInterval,
		Viewport: star.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Spawn: star.SpawnOptions{
			MaxStarRadius: cfg.Starfield.MaxStarRadius,
			Planets:       cfg.PlanetsEnabled(),
		},
		Clock: clock.Style{
			Hour24:    cfg.Clock.Hour24,
			ShowDate:  cfg.DateEnabled(),
			Placement: clock.ParsePlacement(cfg.Clock.Placement),
			Mode:      cfg.Mode(),
		},
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// View is one animated starfield with its clock, bound to a display.
// Everything but Run executes on the event loop goroutine.
type View struct {
	loop    *EventLoop
	display Display
	opts    ViewOptions
	log     *zap.Logger

	field     *star.Field
	scheduler *Scheduler
	formatter *clock.Formatter
	labels    []draw.Label
	face      clock.Face
	minute    Timer
	minuteGen uint64

	loaded bool
	dirty  bool
	paints uint64
}

// NewView creates an unloaded view.
func NewView(l *EventLoop, d Display, opts ViewOptions) *View {
	if opts.After == nil {
		opts.After = l.AfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &View{
		loop:    l,
		display: d,
		opts:    opts,
		log:     opts.Logger,
	}
}

// Run loads the view, runs the event loop until ctx ends or the loop quits, then unloads
// the view and closes the display. It returns the loop's quit cause.
func (v *View) Run(ctx context.Context) error {
	v.loop.Post(v.Load)
	err := v.loop.Run(ctx)
	v.Unload()
	if cerr := v.display.Close(); cerr != nil {
		v.log.Warn("close display", zap.Error(cerr))
	}
	return err
}

// Load builds the field, samples the clock and starts the frame timer.
func (v *View) Load() {
	if v.loaded {
		return
	}
	v.loaded = true
	v.dirty = false

	v.field = star.NewField(v.opts.Capacity, v.opts.Viewport, star.NewSpawner(v.opts.Rand, v.opts.Spawn))
	v.formatter = clock.NewFormatter(v.opts.Clock, v.opts.Rand)
	v.updateClock(v.opts.Now())
	v.armMinute()

	v.scheduler = NewScheduler(v.opts.Interval, v.opts.After, v.frame)
	v.scheduler.Start()

	v.log.Debug("view loaded",
		zap.Int("capacity", v.opts.Capacity),
		zap.Duration("interval", v.scheduler.Interval()),
		zap.Int("width", v.opts.Viewport.Width),
		zap.Int("height", v.opts.Viewport.Height),
		zap.Bool("planets", v.opts.Spawn.Planets))
	v.invalidate()
}

// Unload stops both timers and releases the pool. Safe to call repeatedly or before Load.
func (v *View) Unload() {
	if !v.loaded {
		return
	}
	v.loaded = false

	v.scheduler.Stop()
	v.minuteGen++
	if v.minute != nil {
		v.minute.Stop()
		v.minute = nil
	}

	stats := v.field.Stats()
	v.field.Close()
	v.log.Debug("view unloaded",
		zap.Uint64("frames", stats.Frames),
		zap.Uint64("spawned", stats.Spawned),
		zap.Uint64("retired", stats.Retired),
		zap.Uint64("promoted", stats.Promoted),
		zap.Uint64("paints", v.paints))
}

func (v *View) frame() {
	v.field.Update()
	v.invalidate()
}

// invalidate requests a repaint; requests made before the paint runs coalesce.
// A full queue leaves the view clean so the next frame asks again.
func (v *View) invalidate() {
	if v.dirty {
		return
	}
	if v.loop.TryPost(v.paint) {
		v.dirty = true
	}
}

func (v *View) paint() {
	v.dirty = false
	if !v.loaded {
		return
	}
	v.display.Begin()
	paint.Draw(v.display, v.field.Pool)
	for _, l := range v.labels {
		v.display.DrawLabel(l)
	}
	if err := v.display.Present(); err != nil {
		v.loop.Quit(fmt.Errorf("present frame: %w", err))
		return
	}
	v.paints++
}

func (v *View) tick(gen uint64) {
	if gen != v.minuteGen || !v.loaded {
		return
	}
	v.minute = nil
	v.updateClock(v.opts.Now())
	v.armMinute()
	v.invalidate()
}

func (v *View) armMinute() {
	v.minuteGen++
	gen := v.minuteGen
	t := v.opts.After(clock.UntilNextMinute(v.opts.Now()), func() { v.tick(gen) })
	if t == nil {
		panic("loop: timer primitive returned nil")
	}
	v.minute = t
}

func (v *View) updateClock(now time.Time) {
	v.face = v.formatter.Format(now)
	v.labels = v.formatter.Labels(v.face, v.opts.Viewport.Width, v.opts.Viewport.Height)
}

// Loaded reports whether the view is between Load and Unload.
func (v *View) Loaded() bool {
	return v.loaded
}

// Face returns the current clock sample.
func (v *View) Face() clock.Face {
	return v.face
}

// Stats returns the field counters, or zero before Load.
func (v *View) Stats() star.Stats {
	if v.field == nil {
		return star.Stats{}
	}
	return v.field.Stats()
}

// Paints returns how many frames reached the display.
func (v *View) Paints() uint64 {
	return v.paints
}

// Scheduler exposes the frame scheduler, nil before Load.
func (v *View) Scheduler() *Scheduler {
	return v.scheduler
}

// Pool exposes the live pool, nil before Load.
func (v *View) Pool() *star.Pool {
	if v.field == nil {
		return nil
	}
	return v.field.Pool
}

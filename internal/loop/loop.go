package loop

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Stats is a read-only snapshot of frame bookkeeping.
type Stats struct {
	Ticks     uint64
	Frames    uint64
	LastDelta float64
}

// Loop is the orchestration context: run state, frame clock, viewport and
// pending resize all live here, owned by the goroutine that drives ticks.
type Loop struct {
	engine  Engine
	surface Surface
	bounds  BoundsFunc
	painter Painter

	run     RunState
	clock   FrameClock
	view    Viewport
	applied bool
	resize  *Debouncer
	inbox   inbox
	stats   Stats
	err     error

	quiet    time.Duration
	after    AfterFunc
	dispatch func(func())
	logger   *log.Logger
}

type Option func(*Loop)

func WithQuietPeriod(d time.Duration) Option {
	return func(l *Loop) { l.quiet = d }
}

// WithAfterFunc replaces the debounce timer source.
func WithAfterFunc(after AfterFunc) Option {
	return func(l *Loop) { l.after = after }
}

// WithDispatch replaces how fired debounce timers reach the loop. The default
// posts to the inbox drained by Tick; hosts whose timers already fire on the
// tick goroutine can call the settle closure directly.
func WithDispatch(dispatch func(func())) Option {
	return func(l *Loop) { l.dispatch = dispatch }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

func New(engine Engine, surface Surface, bounds BoundsFunc, opts ...Option) *Loop {
	l := &Loop{
		engine:  engine,
		surface: surface,
		bounds:  bounds,
		run:     NewRunState(),
		quiet:   DefaultQuietPeriod,
		after:   StdAfterFunc,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.dispatch == nil {
		l.dispatch = l.inbox.post
	}
	l.painter = PainterFunc(surface.DrawSprite)
	l.resize = NewDebouncer(l.quiet, l.after, l.dispatch, l.settle)
	return l
}

// Init binds the engine and surface to the host's current bounds.
func (l *Loop) Init() error {
	w, h := l.bounds()
	if err := l.Apply(w, h); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	return nil
}

// Tick runs one frame at host timestamp ts (milliseconds). The clock advances
// on every tick; step, clear and draw only happen while running.
func (l *Loop) Tick(ts float64) error {
	if l.err != nil {
		return ErrStopped
	}
	l.inbox.drain()
	if l.err != nil {
		return l.err
	}

	delta := l.clock.Advance(ts)
	l.stats.Ticks++
	if !l.run.Animating() {
		return nil
	}

	if err := l.engine.Step(delta); err != nil {
		return l.fail(&EngineError{Op: "step", Tick: l.stats.Ticks, Err: err})
	}
	l.surface.Clear()
	if err := l.engine.Draw(l.painter); err != nil {
		return l.fail(&EngineError{Op: "draw", Tick: l.stats.Ticks, Err: err})
	}
	l.stats.Frames++
	l.stats.LastDelta = delta
	return nil
}

// Toggle flips between running and paused. The change is observed by the
// next tick.
func (l *Loop) Toggle() {
	l.run.Toggle()
	l.logger.Printf("toggle: %s", l.run)
}

// NotifyResize reports a raw resize signal from the host.
func (l *Loop) NotifyResize() {
	l.resize.Notify()
}

func (l *Loop) settle() {
	w, h := l.bounds()
	// A failure is recorded in l.err and surfaces on the next Tick.
	_ = l.Apply(w, h)
}

// Close cancels a pending resize. The loop itself has nothing else to release.
func (l *Loop) Close() {
	l.resize.Close()
}

func (l *Loop) fail(err error) error {
	l.err = err
	l.resize.Close()
	l.logger.Printf("fatal: %v", err)
	return err
}

func (l *Loop) Running() bool { return l.run.Animating() }

func (l *Loop) RunState() RunState { return l.run }

func (l *Loop) Stats() Stats { return l.stats }

// Err returns the fatal error that stopped the loop, if any.
func (l *Loop) Err() error { return l.err }

func (l *Loop) ResizeState() DebounceState { return l.resize.State() }

// inbox carries closures from timer goroutines to the tick goroutine.
type inbox struct {
	mu  sync.Mutex
	fns []func()
}

func (b *inbox) post(f func()) {
	b.mu.Lock()
	b.fns = append(b.fns, f)
	b.mu.Unlock()
}

func (b *inbox) drain() {
	b.mu.Lock()
	fns := b.fns
	b.fns = nil
	b.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

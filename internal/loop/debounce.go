package loop

import "time"

// DefaultQuietPeriod is how long resize notifications must stay silent
// before the debouncer settles.
const DefaultQuietPeriod = 250 * time.Millisecond

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through
// StdAfterFunc; tests and the browser host supply their own.
type AfterFunc func(d time.Duration, f func()) Timer

func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DebounceState is the debouncer's lifecycle position.
type DebounceState int

const (
	DebounceIdle DebounceState = iota
	DebouncePending
	DebounceFired
)

func (s DebounceState) String() string {
	switch s {
	case DebounceIdle:
		return "idle"
	case DebouncePending:
		return "pending"
	case DebounceFired:
		return "fired"
	}
	return "unknown"
}

// Debouncer runs settle once after notifications have been quiet for the
// configured period. It owns at most one timer at any instant.
//
// Notify, Close, Flush and the dispatched settle callback must run on the
// same goroutine. The timer itself may fire anywhere: it only hands a
// closure to dispatch, and a closure whose generation is no longer current
// is dropped.
type Debouncer struct {
	quiet    time.Duration
	after    AfterFunc
	dispatch func(func())
	settle   func()
	queue    inbox

	state  DebounceState
	timer  Timer
	gen    uint64
	closed bool
}

// NewDebouncer returns an idle debouncer. A nil after selects
// time.AfterFunc. A nil dispatch depends on the timer source: std timers
// fire on their own goroutines, so their callbacks queue until Flush; a
// custom source is trusted to fire on the notifying goroutine and is
// dispatched directly.
func NewDebouncer(quiet time.Duration, after AfterFunc, dispatch func(func()), settle func()) *Debouncer {
	d := &Debouncer{
		quiet:    quiet,
		after:    after,
		dispatch: dispatch,
		settle:   settle,
	}
	if d.dispatch == nil {
		if d.after == nil {
			d.dispatch = d.queue.post
		} else {
			d.dispatch = func(f func()) { f() }
		}
	}
	if d.after == nil {
		d.after = StdAfterFunc
	}
	return d
}

// Notify restarts the quiet period, cancelling any pending timer.
func (d *Debouncer) Notify() {
	if d.closed {
		return
	}
	d.cancel()
	d.gen++
	gen := d.gen
	d.state = DebouncePending
	d.timer = d.after(d.quiet, func() {
		d.dispatch(func() { d.fire(gen) })
	})
}

func (d *Debouncer) fire(gen uint64) {
	if d.closed || gen != d.gen || d.state != DebouncePending {
		return
	}
	d.timer = nil
	d.state = DebounceFired
	d.settle()
}

// Flush runs fired timers queued by the default dispatcher.
func (d *Debouncer) Flush() {
	d.queue.drain()
}

// Close cancels a pending timer. Later notifications are ignored.
func (d *Debouncer) Close() {
	d.cancel()
	d.closed = true
}

func (d *Debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.state == DebouncePending {
		d.state = DebounceIdle
	}
}

func (d *Debouncer) State() DebounceState { return d.state }

func (d *Debouncer) Quiet() time.Duration { return d.quiet }

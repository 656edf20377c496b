package loop

import (
	"context"
	"sync"
	"time"
)

// CancelFunc withdraws a frame request that has not fired yet.
type CancelFunc func()

// FrameRequester asks the host for one callback on its next display frame,
// passing a millisecond timestamp. requestAnimationFrame is the model.
type FrameRequester interface {
	RequestFrame(fn func(ts float64)) CancelFunc
}

// Handle controls a loop started with Start.
type Handle struct {
	mu      sync.Mutex
	cancel  CancelFunc
	stopped bool
	err     error
	done    chan struct{}
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Stop withdraws the outstanding frame request. Safe to call more than once
// and from any goroutine.
func (h *Handle) Stop() {
	h.finish(nil)
}

// Done is closed once the loop stops scheduling frames.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the fatal error that ended the loop, or nil after Stop.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped, h.err = true, err
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	close(h.done)
}

// arm stores the cancel func of the next request unless the handle has
// already stopped, in which case the request is withdrawn at once.
func (h *Handle) arm(cancel CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		if cancel != nil {
			cancel()
		}
		return
	}
	h.cancel = cancel
}

func (h *Handle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// Start drives Tick from req. Every callback requests the following frame
// before doing any work, so the schedule survives pauses without being
// re-armed. A fatal tick error stops the loop and is reported by the handle.
func (l *Loop) Start(req FrameRequester) *Handle {
	h := newHandle()
	var frame func(ts float64)
	frame = func(ts float64) {
		if h.isStopped() {
			return
		}
		h.arm(req.RequestFrame(frame))
		if err := l.Tick(ts); err != nil {
			h.finish(err)
		}
	}
	h.arm(req.RequestFrame(frame))
	return h
}

// Run drives Tick from a ticker until ctx ends (returning nil) or a tick
// fails. It serves hosts without a display refresh callback. Timestamps
// are milliseconds since Run started.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Printf("run: %v", ctx.Err())
			return nil
		case now := <-ticker.C:
			if err := l.Tick(Millis(now.Sub(start))); err != nil {
				return err
			}
		}
	}
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

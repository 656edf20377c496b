package loop

import "fmt"

// Viewport is the settled size of the render surface in logical pixels.
type Viewport struct {
	Width, Height int
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Apply sets the viewport, resizes the surface and forwards the bounds to the
// engine. Applying the size already in effect is a no-op. A failed engine
// resize is fatal: the loop records the error and stops ticking.
func (l *Loop) Apply(width, height int) error {
	if l.err != nil {
		return ErrStopped
	}
	next := Viewport{Width: max(width, 0), Height: max(height, 0)}
	if l.applied && next == l.view {
		return nil
	}

	l.view = next
	l.surface.Resize(next.Width, next.Height)
	if err := l.engine.Resize(next.Width, next.Height); err != nil {
		return l.fail(&EngineError{Op: "resize", Tick: l.stats.Ticks, Err: err})
	}
	l.applied = true
	l.logger.Printf("viewport %s", next)
	return nil
}

func (l *Loop) Viewport() Viewport { return l.view }

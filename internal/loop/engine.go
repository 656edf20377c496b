package loop

// Painter draws one simulated entity at logical position (x, y).
type Painter interface {
	Paint(x, y float64)
}

// PainterFunc adapts a plain function to Painter.
type PainterFunc func(x, y float64)

func (f PainterFunc) Paint(x, y float64) { f(x, y) }

// Engine is the simulation collaborator. Implementations own entity state and
// coordinates; the loop only advances, draws, and bounds them.
type Engine interface {
	Step(deltaMs float64) error
	Draw(p Painter) error
	Resize(width, height int) error
}

// Surface is the visible render target. DrawSprite paints the session's sprite
// with its top-left corner at (x, y).
type Surface interface {
	Resize(width, height int)
	Clear()
	DrawSprite(x, y float64)
}

// BoundsFunc reports the host's current viewport size.
type BoundsFunc func() (width, height int)

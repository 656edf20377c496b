package viz

import (
	"image"
	"math"

	"github.com/san-kum/marbles/internal/sprite"
)

// Surface renders the marble sprite onto a braille Canvas. Scale is the
// number of logical pixels per dot on each axis.
type Surface struct {
	canvas *Canvas
	scale  float64
	mask   [][]bool
}

func NewSurface(sp *image.RGBA, scale float64) *Surface {
	return &Surface{
		canvas: NewCanvas(0, 0),
		scale:  scale,
		mask:   sprite.Mask(sp),
	}
}

// Resize sizes the canvas to the fewest cells covering width x height
// logical pixels.
func (s *Surface) Resize(width, height int) {
	cols := int(math.Ceil(float64(width) / s.scale / 2))
	rows := int(math.Ceil(float64(height) / s.scale / 4))
	s.canvas.Resize(cols, rows)
}

func (s *Surface) Clear() {
	s.canvas.Clear()
}

// DrawSprite stamps the sprite mask with its top-left corner at (x, y).
func (s *Surface) DrawSprite(x, y float64) {
	for j, row := range s.mask {
		for i, on := range row {
			if !on {
				continue
			}
			dx := int(math.Floor((x + float64(i)) / s.scale))
			dy := int(math.Floor((y + float64(j)) / s.scale))
			s.canvas.Set(dx, dy)
		}
	}
}

func (s *Surface) Canvas() *Canvas { return s.canvas }

func (s *Surface) String() string { return s.canvas.String() }

package gui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is an offscreen ebiten image the loop draws marbles into. The
// screen itself is redrawn every frame, so the last frame survives a pause
// only because it lives here.
type Surface struct {
	img    *ebiten.Image
	sprite *ebiten.Image
	width  int
	height int
}

func NewSurface(sp image.Image) *Surface {
	return &Surface{sprite: ebiten.NewImageFromImage(sp)}
}

// Resize reallocates the backing image. ebiten rejects empty images, so a
// zero-area surface holds no image at all and ignores draws.
func (s *Surface) Resize(width, height int) {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.width, s.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	s.img = ebiten.NewImage(width, height)
}

func (s *Surface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

// DrawSprite draws the sprite with its top-left corner at (x, y).
func (s *Surface) DrawSprite(x, y float64) {
	if s.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	s.img.DrawImage(s.sprite, op)
}

// Present fills dst with bg and copies the surface on top.
func (s *Surface) Present(dst *ebiten.Image, bg color.Color) {
	dst.Fill(bg)
	if s.img != nil {
		dst.DrawImage(s.img, nil)
	}
}

func (s *Surface) Size() (int, int) { return s.width, s.height }

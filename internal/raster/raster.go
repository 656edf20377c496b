// Package raster is an in-memory render surface backed by image.RGBA. The
// headless host draws into it and can save the last frame as PNG.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
)

type Surface struct {
	img    *image.RGBA
	sprite *image.RGBA
	draws  int
}

func New(sprite *image.RGBA) *Surface {
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, 0, 0)),
		sprite: sprite,
	}
}

// Resize replaces the backing image; the previous frame is discarded.
func (s *Surface) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// DrawSprite composites the sprite with its top-left corner at the nearest
// whole pixel to (x, y). Parts outside the image are clipped.
func (s *Surface) DrawSprite(x, y float64) {
	at := image.Pt(int(math.Round(x)), int(math.Round(y)))
	r := s.sprite.Bounds().Sub(s.sprite.Bounds().Min).Add(at)
	draw.Draw(s.img, r, s.sprite, s.sprite.Bounds().Min, draw.Over)
	s.draws++
}

func (s *Surface) Image() *image.RGBA { return s.img }

// Draws counts DrawSprite calls since creation.
func (s *Surface) Draws() int { return s.draws }

// WritePNG encodes the current frame flattened onto an opaque background.
func (s *Surface) WritePNG(w io.Writer, background color.Color) error {
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), s.img, s.img.Bounds().Min, draw.Over)
	return png.Encode(w, out)
}

// Package sprite draws the marble bitmap shared by every render surface.
package sprite

import (
	"image"
	"image/color"
	"math"
)

const (
	// Size is the bitmap edge length in logical pixels.
	Size = 21
	// Radius of the marble, centered at (Radius, Radius).
	Radius = 10.0

	samples = 4
)

var (
	Top    = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	Bottom = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
)

// Build returns a Size x Size bitmap holding a vertical Top to Bottom gradient
// clipped to a filled circle. Edge pixels carry partial alpha from 4x4
// supersampling. The result is premultiplied and should be treated as
// read-only.
func Build() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	for y := 0; y < Size; y++ {
		t := math.Min(math.Max((float64(y)+0.5)/(2*Radius), 0), 1)
		c := lerp(Top, Bottom, t)
		for x := 0; x < Size; x++ {
			cov := coverage(x, y)
			if cov == 0 {
				continue
			}
			img.SetRGBA(x, y, premultiply(c, cov))
		}
	}
	return img
}

func coverage(x, y int) float64 {
	inside := 0
	for j := 0; j < samples; j++ {
		for i := 0; i < samples; i++ {
			dx := float64(x) + (float64(i)+0.5)/samples - Radius
			dy := float64(y) + (float64(j)+0.5)/samples - Radius
			if dx*dx+dy*dy <= Radius*Radius {
				inside++
			}
		}
	}
	return float64(inside) / (samples * samples)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + t*(float64(q)-float64(p))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func premultiply(c color.RGBA, alpha float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * alpha))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(0xff)}
}

// Mask reports which pixels are at least half covered. Renderers without
// alpha blending use it as a stencil.
func Mask(img *image.RGBA) [][]bool {
	b := img.Bounds()
	mask := make([][]bool, b.Dy())
	for y := range mask {
		mask[y] = make([]bool, b.Dx())
		for x := range mask[y] {
			mask[y][x] = img.RGBAAt(b.Min.X+x, b.Min.Y+y).A >= 0x80
		}
	}
	return mask
}

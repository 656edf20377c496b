//go:build js && wasm

package web

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"syscall/js"
)

var ErrNoCanvas = errors.New("web: canvas element not found")

// Surface draws into a <canvas> 2D context. The sprite is uploaded once to
// an offscreen canvas and blitted with drawImage.
type Surface struct {
	canvas js.Value
	ctx    js.Value
	sprite js.Value
	width  int
	height int
}

// NewSurface binds the canvas with the given id and uploads sp.
func NewSurface(document js.Value, id string, sp image.Image) (*Surface, error) {
	canvas := document.Call("getElementById", id)
	if canvas.IsNull() || canvas.IsUndefined() {
		return nil, fmt.Errorf("%w: #%s", ErrNoCanvas, id)
	}
	return &Surface{
		canvas: canvas,
		ctx:    canvas.Call("getContext", "2d"),
		sprite: uploadSprite(document, sp),
	}, nil
}

// uploadSprite copies sp into a detached canvas. ImageData is straight
// alpha, so the image is converted to NRGBA first.
func uploadSprite(document js.Value, sp image.Image) js.Value {
	b := sp.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), sp, b.Min, draw.Src)

	pix := js.Global().Get("Uint8ClampedArray").New(len(nrgba.Pix))
	js.CopyBytesToJS(pix, nrgba.Pix)
	data := js.Global().Get("ImageData").New(pix, b.Dx(), b.Dy())

	off := document.Call("createElement", "canvas")
	off.Set("width", b.Dx())
	off.Set("height", b.Dy())
	off.Call("getContext", "2d").Call("putImageData", data, 0, 0)
	return off
}

// Resize sets the canvas backing size. Assigning width or height also
// clears the canvas.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	s.canvas.Set("width", width)
	s.canvas.Set("height", height)
}

func (s *Surface) Clear() {
	s.ctx.Call("clearRect", 0, 0, s.width, s.height)
}

func (s *Surface) DrawSprite(x, y float64) {
	s.ctx.Call("drawImage", s.sprite, x, y)
}

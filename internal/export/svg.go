package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/marbles/internal/sprite"
	"github.com/san-kum/marbles/internal/viz"
	"github.com/san-kum/marbles/internal/world"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
// scale is the size of a dot in SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// MarblesToSVG draws the marbles as circles with the sprite's vertical
// gradient on a white background.
func MarblesToSVG(marbles []world.Marble, width, height int, radius float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
<linearGradient id="marble" x1="0" y1="0" x2="0" y2="1">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</linearGradient>
</defs>
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g fill="url(#marble)">
`, width, height, width, height, hex(sprite.Top), hex(sprite.Bottom)))

	for _, m := range marbles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, m.X, m.Y, radius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Package viz is the terminal host: a Bubble Tea program that drives the
// animation loop and renders marbles on a braille canvas.
//
//   - [App]: the tea.Model wiring ticks, resize and input to [loop.Loop]
//   - [Surface]: a [loop.Surface] drawing the sprite as braille dots
//   - [Canvas]: the braille grid
//   - [Theme]: color schemes, cycled with T
//
// # Key Bindings
//
//	Space, Enter, P - Pause/Resume
//	Left click      - Pause/Resume
//	C               - Toggle the frame-time chart
//	T               - Cycle color themes
//	S               - Save an SVG snapshot (when enabled)
//	Q, Esc          - Quit
package viz

package gui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/marbles/internal/loop"
)

var (
	ColBg   = color.White
	ColText = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

// WindowSize is the last layout size reported by ebiten. It backs the
// loop's bounds callback.
type WindowSize struct {
	Width, Height int
}

func (w *WindowSize) Bounds() (int, int) { return w.Width, w.Height }

// Action is what a batch of input asks the host to do.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionQuit
)

// classify maps the keys pressed this frame to an action. Escape quits;
// any other key toggles.
func classify(keys []ebiten.Key, click bool) Action {
	for _, k := range keys {
		if k == ebiten.KeyEscape {
			return ActionQuit
		}
	}
	if len(keys) > 0 || click {
		return ActionToggle
	}
	return ActionNone
}

// App implements ebiten.Game around a loop.Loop.
type App struct {
	loop    *loop.Loop
	surface *Surface
	size    *WindowSize
	start   time.Time
	keys    []ebiten.Key
	ShowHUD bool
}

func NewApp(l *loop.Loop, surface *Surface, size *WindowSize) *App {
	return &App{
		loop:    l,
		surface: surface,
		size:    size,
		start:   time.Now(),
		ShowHUD: true,
	}
}

func (a *App) Update() error {
	a.keys = inpututil.AppendJustPressedKeys(a.keys[:0])
	click := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	switch classify(a.keys, click) {
	case ActionQuit:
		a.loop.Close()
		return ebiten.Termination
	case ActionToggle:
		a.loop.Toggle()
	}
	return a.loop.Tick(loop.Millis(time.Since(a.start)))
}

func (a *App) Draw(screen *ebiten.Image) {
	a.surface.Present(screen, ColBg)
	if !a.ShowHUD {
		return
	}
	stats := a.loop.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %s  frames %d  dt %.1fms",
		a.loop.RunState(), a.loop.Viewport(), stats.Frames, stats.LastDelta), 4, 4)
}

// Layout tracks the outside size and forwards changes to the loop's resize
// debouncer. The logical screen always matches the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.size.Width || outsideHeight != a.size.Height {
		a.size.Width, a.size.Height = outsideWidth, outsideHeight
		a.loop.NotifyResize()
	}
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

// Run opens a resizable window and blocks until it is closed or the loop
// fails.
func Run(app *App, title string, fps int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(app.size.Width, app.size.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(fps)
	defer app.loop.Close()
	return ebiten.RunGame(app)
}

package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/marbles/internal/loop"
)

const (
	headerRows      = 2
	footerRows      = 2
	chartRows       = 6
	historyCapacity = 120
)

type TickMsg time.Time

// SnapshotFunc saves the canvas and returns where it was written.
type SnapshotFunc func(c *Canvas) (string, error)

// TermSize is the terminal size in cells, shared between the App and the
// loop's bounds callback.
type TermSize struct {
	Cols, Rows int
	Chart      bool
}

// CanvasCells is the part of the terminal left for the braille canvas.
func (t *TermSize) CanvasCells() (cols, rows int) {
	rows = t.Rows - headerRows - footerRows
	if t.Chart {
		rows -= chartRows
	}
	return max(t.Cols, 0), max(rows, 0)
}

// Bounds converts the canvas cells to logical pixels at the given scale.
func (t *TermSize) Bounds(scale float64) loop.BoundsFunc {
	return func() (int, int) {
		cols, rows := t.CanvasCells()
		return int(float64(cols*2) * scale), int(float64(rows*4) * scale)
	}
}

// App is the Bubble Tea model of the terminal host. It uses pointer
// receivers: the loop it drives is stateful and must not be copied.
type App struct {
	loop     *loop.Loop
	surface  *Surface
	size     *TermSize
	interval time.Duration
	start    time.Time
	theme    Theme
	styles   styles
	deltas   []float64
	frames   uint64
	snapshot SnapshotFunc
	flash    string
	err      error
}

func NewApp(l *loop.Loop, surface *Surface, size *TermSize, interval time.Duration, theme Theme) *App {
	return &App{
		loop:     l,
		surface:  surface,
		size:     size,
		interval: interval,
		start:    time.Now(),
		theme:    theme,
		styles:   newStyles(theme),
		deltas:   make([]float64, 0, historyCapacity),
	}
}

// SetSnapshot enables the snapshot key.
func (a *App) SetSnapshot(fn SnapshotFunc) { a.snapshot = fn }

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if err := a.loop.Tick(loop.Millis(time.Time(msg).Sub(a.start))); err != nil {
			a.err = err
			return a, tea.Quit
		}
		a.record()
		return a, a.tick()
	case tea.WindowSizeMsg:
		a.size.Cols, a.size.Rows = msg.Width, msg.Height
		a.loop.NotifyResize()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			a.loop.Toggle()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			a.loop.Close()
			return a, tea.Quit
		case " ", "enter", "p":
			a.loop.Toggle()
		case "c":
			a.size.Chart = !a.size.Chart
			a.loop.NotifyResize()
		case "t":
			a.theme = NextTheme(a.theme)
			a.styles = newStyles(a.theme)
		case "s":
			a.takeSnapshot()
		}
	}
	return a, nil
}

func (a *App) takeSnapshot() {
	if a.snapshot == nil {
		return
	}
	path, err := a.snapshot(a.surface.Canvas())
	if err != nil {
		a.flash = "snapshot failed: " + err.Error()
		return
	}
	a.flash = "saved " + path
}

// record keeps the deltas of drawn frames for the chart.
func (a *App) record() {
	stats := a.loop.Stats()
	if stats.Frames == a.frames {
		return
	}
	a.frames = stats.Frames
	a.deltas = append(a.deltas, stats.LastDelta)
	if len(a.deltas) > historyCapacity {
		a.deltas = a.deltas[1:]
	}
}

func (a *App) View() string {
	var s strings.Builder

	status := a.styles.running.Render("● RUNNING")
	if !a.loop.Running() {
		status = a.styles.paused.Render("❚❚ PAUSED")
	}
	s.WriteString(a.styles.title.Render("MARBLES") + "  " + status + "  " +
		a.styles.label.Render(a.loop.Viewport().String()) + "\n\n")

	s.WriteString(a.styles.canvas.Render(a.surface.String()) + "\n")

	if a.size.Chart && len(a.deltas) > 1 {
		cols, _ := a.size.CanvasCells()
		chart := asciigraph.Plot(a.deltas,
			asciigraph.Height(chartRows-2),
			asciigraph.Width(max(cols-12, 10)),
			asciigraph.Caption("frame ms"))
		s.WriteString(a.styles.graph.Render(chart) + "\n")
	}

	stats := a.loop.Stats()
	s.WriteString(a.styles.label.Render("frames ") + a.styles.value.Render(fmt.Sprintf("%d", stats.Frames)) +
		a.styles.label.Render("  fps ") + a.styles.value.Render(fmt.Sprintf("%.0f", fps(a.deltas))) + "\n")
	if a.flash != "" {
		s.WriteString(a.styles.label.Render(a.flash) + "  ")
	}
	s.WriteString(a.styles.help.Render("space pause · c chart · t theme · s snapshot · q quit"))
	return s.String()
}

// Err returns the engine failure that ended the program, if any.
func (a *App) Err() error { return a.err }

func (a *App) Theme() Theme { return a.theme }

func fps(deltas []float64) float64 {
	if len(deltas) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range deltas {
		sum += d
	}
	if sum == 0 {
		return 0
	}
	return 1000 * float64(len(deltas)) / sum
}

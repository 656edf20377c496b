package main

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/marbles/internal/config"
	"github.com/san-kum/marbles/internal/export"
	"github.com/san-kum/marbles/internal/gui"
	"github.com/san-kum/marbles/internal/loop"
	"github.com/san-kum/marbles/internal/metrics"
	"github.com/san-kum/marbles/internal/raster"
	"github.com/san-kum/marbles/internal/sim"
	"github.com/san-kum/marbles/internal/sprite"
	"github.com/san-kum/marbles/internal/storage"
	"github.com/san-kum/marbles/internal/viz"
	"github.com/san-kum/marbles/internal/world"
)

var (
	// Config sources
	configFile string
	preset     string
	// Overrides
	seed      int64
	marbles   int
	frameRate int
	quietMs   int
	logFile   string
	dataDir   string
	// run
	duration time.Duration
	snapshot string
	svgFile  string
	save     bool
	// bench
	benchRuns  int
	benchSteps int
	benchDt    float64
	// tui
	theme string
	scale float64
)

// main registers the command tree and exits with status 1 on any error.
// With no subcommand the terminal animation starts.
func main() {
	rootCmd := &cobra.Command{
		Use:           "marbles",
		Short:         "bouncing marbles on a canvas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	rootCmd.PersistentFlags().IntVar(&marbles, "marbles", config.DefaultMarbles, "number of marbles")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	rootCmd.PersistentFlags().IntVar(&quietMs, "quiet", config.DefaultResizeQuietMs, "resize quiet period in ms")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "log file (- for stderr)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".marbles", "data directory for saved runs")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "animate in the terminal",
		RunE:  runTUI,
	}
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&theme, "theme", "", "terminal theme")
		c.Flags().Float64Var(&scale, "scale", config.DefaultScale, "logical pixels per braille dot")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate in a desktop window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report frame times",
		RunE:  runHeadless,
	}
	runCmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to run")
	runCmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final frame to this PNG file")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final marble positions to this SVG file")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run report to the data directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot frame times of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeded worlds in parallel on a virtual clock",
		RunE:  benchRun,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "number of seeds to run")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 1000, "ticks per run")
	benchCmd.Flags().Float64Var(&benchDt, "dt", 1000.0/config.DefaultFrameRate, "virtual ms between ticks")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Available presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %3d marbles  %2d fps  speed %.2f\n",
					name, p.World.Marbles, p.FrameRate, p.World.MaxSpeed)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, runsCmd, plotCmd, benchCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers the preset, the config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("marbles") {
		cfg.World.Marbles = marbles
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("quiet") {
		cfg.ResizeQuietMs = quietMs
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Terminal.Theme = theme
	}
	if flags.Lookup("scale") != nil && flags.Changed("scale") {
		cfg.Terminal.Scale = scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newWorld builds the engine from cfg, pinning a time based seed into cfg so
// the run can be reported and reproduced.
func newWorld(cfg *config.Config) (*world.World, error) {
	cfg.Seed = cfg.SeedOrNow()
	w, err := world.New(
		world.WithBounds(cfg.Width, cfg.Height),
		world.WithMarbles(cfg.World.Marbles),
		world.WithRadius(cfg.World.Radius),
		world.WithMaxSpeed(cfg.World.MaxSpeed),
		world.WithSubsteps(cfg.World.MaxStepMs, cfg.World.Substeps),
		world.WithSeed(cfg.Seed),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loop.ErrInit, err)
	}
	return w, nil
}

// openLog returns the logger for non-terminal hosts and a closer for it.
func openLog() (*log.Logger, func(), error) {
	switch logFile {
	case "":
		return log.New(io.Discard, "", 0), func() {}, nil
	case "-":
		return log.New(os.Stderr, "marbles ", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	return log.New(f, "marbles ", log.LstdFlags), func() { f.Close() }, nil
}

func loopOptions(cfg *config.Config, logger *log.Logger) []loop.Option {
	return []loop.Option{
		loop.WithQuietPeriod(cfg.ResizeQuiet()),
		loop.WithLogger(logger),
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns stdout, so logs go to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if logFile != "" && logFile != "-" {
		f, err := tea.LogToFile(logFile, "marbles")
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	cols, rows, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		cols, rows = 80, 24
	}
	size := &viz.TermSize{Cols: cols, Rows: rows}

	// The world starts at the canvas size the terminal actually has.
	w, h := size.Bounds(cfg.Terminal.Scale)()
	cfg.Width, cfg.Height = w, h
	engine, err := newWorld(cfg)
	if err != nil {
		return err
	}

	surface := viz.NewSurface(sprite.Build(), cfg.Terminal.Scale)
	l := loop.New(engine, surface, size.Bounds(cfg.Terminal.Scale), loopOptions(cfg, logger)...)
	if err := l.Init(); err != nil {
		return err
	}
	defer l.Close()

	app := viz.NewApp(l, surface, size, cfg.FrameInterval(), viz.GetTheme(cfg.Terminal.Theme))
	app.SetSnapshot(func(c *viz.Canvas) (string, error) {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		path := filepath.Join(dataDir, fmt.Sprintf("snapshot_%d.svg", time.Now().UnixMilli()))
		svg := export.CanvasToSVG(c, cfg.Terminal.Scale, string(app.Theme().Marble))
		return path, os.WriteFile(path, []byte(svg), 0644)
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.Err()
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := newWorld(cfg)
	if err != nil {
		return err
	}
	size := &gui.WindowSize{Width: cfg.Width, Height: cfg.Height}
	surface := gui.NewSurface(sprite.Build())
	l := loop.New(engine, surface, size.Bounds, loopOptions(cfg, logger)...)
	if err := l.Init(); err != nil {
		return err
	}

	return gui.Run(gui.NewApp(l, surface, size), "marbles", cfg.FrameRate)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	w, err := newWorld(cfg)
	if err != nil {
		return err
	}
	engine := metrics.NewRecorder(w, metrics.Default()...)
	surface := raster.New(sprite.Build())
	bounds := func() (int, int) { return cfg.Width, cfg.Height }
	l := loop.New(engine, surface, bounds, loopOptions(cfg, logger)...)
	if err := l.Init(); err != nil {
		return err
	}
	defer l.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), duration)
	defer cancel()
	start := time.Now()
	if err := l.Run(ctx, cfg.FrameInterval()); err != nil {
		return err
	}
	elapsed := time.Since(start)

	stats := l.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Frames: %d in %v (%.1f fps)\n", stats.Frames, elapsed.Round(time.Millisecond),
		float64(stats.Frames)/elapsed.Seconds())
	fmt.Fprintf(out, "Marbles: %d  Viewport: %s\n", len(w.Marbles()), l.Viewport())
	results := engine.Results()
	for _, name := range []string{"frame_ms", "max_frame_ms", "energy_drift", "containment"} {
		fmt.Fprintf(out, "  %-14s %.6g\n", name, results[name])
	}
	if deltas := engine.Deltas(); len(deltas) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, plotDeltas(deltas[1:], 60))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:    preset,
			Seed:      cfg.Seed,
			Marbles:   cfg.World.Marbles,
			Width:     cfg.Width,
			Height:    cfg.Height,
			FrameRate: cfg.FrameRate,
			Duration:  elapsed.Seconds(),
			Frames:    stats.Frames,
			Metrics:   results,
		}, engine.Deltas())
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(out, "Saved: %s\n", runID)
	}

	if snapshot != "" {
		f, err := os.Create(snapshot)
		if err != nil {
			return fmt.Errorf("failed to create snapshot: %w", err)
		}
		defer f.Close()
		if err := surface.WritePNG(f, color.White); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(out, "Snapshot: %s\n", snapshot)
	}

	if svgFile != "" {
		svg := export.MarblesToSVG(w.Marbles(), cfg.Width, cfg.Height, w.Radius())
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		fmt.Fprintf(out, "SVG: %s\n", svgFile)
	}
	return nil
}

func plotDeltas(deltas []float64, width int) string {
	return asciigraph.Plot(deltas,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("frame delta (ms)"))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tMARBLES\tFRAMES\tFRAME MS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%.2f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Marbles,
			run.Frames,
			run.Metrics["frame_ms"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	deltas, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(deltas) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("marbles: %d  seed: %d\n", meta.Marbles, meta.Seed)
	fmt.Printf("frames: %d\n\n", len(deltas))
	fmt.Println(plotDeltas(deltas[1:], 80))
	return nil
}

func benchRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s := sim.New(cfg, sprite.Build())
	results, err := sim.NewEnsemble(s, benchRuns, cfg.SeedOrNow()).Run(cmd.Context(), sim.Config{
		Dt:    benchDt,
		Steps: benchSteps,
	})
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d marbles, %d runs of %d ticks\n\n", cfg.World.Marbles, benchRuns, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tTIME\tSTEPS/SEC\tENERGY DRIFT\tCONTAINMENT")

	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.2e\t%.3f\n",
			r.Seed,
			r.Frames,
			r.Elapsed.Round(time.Microsecond),
			r.StepsPerSec(),
			r.Metrics["energy_drift"],
			r.Metrics["containment"],
		)
	}

	return w.Flush()
}

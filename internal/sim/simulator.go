package sim

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/san-kum/marbles/internal/config"
	"github.com/san-kum/marbles/internal/loop"
	"github.com/san-kum/marbles/internal/metrics"
	"github.com/san-kum/marbles/internal/raster"
	"github.com/san-kum/marbles/internal/world"
)

// Simulator runs the full frame pipeline headless on a virtual clock, so a
// run's outcome depends only on its config and seed.
type Simulator struct {
	cfg    *config.Config
	sprite *image.RGBA
}

// New returns a simulator for cfg. sp is shared read-only between runs.
func New(cfg *config.Config, sp *image.RGBA) *Simulator {
	return &Simulator{cfg: cfg, sprite: sp}
}

func (s *Simulator) validate(rc Config) error {
	if rc.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrConfig, rc.Dt)
	}
	if rc.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrConfig, rc.Steps)
	}
	return nil
}

func (s *Simulator) Run(ctx context.Context, rc Config) (*Result, error) {
	if err := s.validate(rc); err != nil {
		return nil, err
	}

	w, err := world.New(
		world.WithBounds(s.cfg.Width, s.cfg.Height),
		world.WithMarbles(s.cfg.World.Marbles),
		world.WithRadius(s.cfg.World.Radius),
		world.WithMaxSpeed(s.cfg.World.MaxSpeed),
		world.WithSubsteps(s.cfg.World.MaxStepMs, s.cfg.World.Substeps),
		world.WithSeed(rc.Seed),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loop.ErrInit, err)
	}
	engine := metrics.NewRecorder(w, metrics.Default()...)
	bounds := func() (int, int) { return s.cfg.Width, s.cfg.Height }
	l := loop.New(engine, raster.New(s.sprite), bounds)
	defer l.Close()
	if err := l.Init(); err != nil {
		return nil, err
	}

	start := time.Now()
	for i := 0; i < rc.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := l.Tick(float64(i) * rc.Dt); err != nil {
			return nil, fmt.Errorf("seed %d tick %d: %w", rc.Seed, i, err)
		}
	}

	return &Result{
		Seed:     rc.Seed,
		Frames:   l.Stats().Frames,
		Elapsed:  time.Since(start),
		Viewport: l.Viewport().String(),
		Metrics:  engine.Results(),
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultFrameRate     = 60
	DefaultResizeQuietMs = 250
	DefaultCanvasID      = "mycanvas"
	DefaultMarbles       = 25
	DefaultRadius        = 10.0
	DefaultMaxSpeed      = 0.25
	DefaultMaxStepMs     = 100.0
	DefaultSubsteps      = 10
	DefaultScale         = 4.0
	DefaultTheme         = "ocean"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width         int            `yaml:"width"`
	Height        int            `yaml:"height"`
	FrameRate     int            `yaml:"frame_rate"`
	ResizeQuietMs int            `yaml:"resize_quiet_ms"`
	Seed          int64          `yaml:"seed"`
	CanvasID      string         `yaml:"canvas_id"`
	World         WorldConfig    `yaml:"world"`
	Terminal      TerminalConfig `yaml:"terminal"`
}

type WorldConfig struct {
	Marbles   int     `yaml:"marbles"`
	Radius    float64 `yaml:"radius"`
	MaxSpeed  float64 `yaml:"max_speed"`
	MaxStepMs float64 `yaml:"max_step_ms"`
	Substeps  int     `yaml:"substeps"`
}

// TerminalConfig controls the braille renderer. Scale is the number of
// logical pixels covered by one braille dot.
type TerminalConfig struct {
	Scale float64 `yaml:"scale"`
	Theme string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		FrameRate:     DefaultFrameRate,
		ResizeQuietMs: DefaultResizeQuietMs,
		CanvasID:      DefaultCanvasID,
		World: WorldConfig{
			Marbles:   DefaultMarbles,
			Radius:    DefaultRadius,
			MaxSpeed:  DefaultMaxSpeed,
			MaxStepMs: DefaultMaxStepMs,
			Substeps:  DefaultSubsteps,
		},
		Terminal: TerminalConfig{
			Scale: DefaultScale,
			Theme: DefaultTheme,
		},
	}
}

// Load reads a YAML file on top of base. A nil base means DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if base != nil {
		clone := *base
		cfg = &clone
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalid, c.FrameRate)
	case c.ResizeQuietMs < 0:
		return fmt.Errorf("%w: resize_quiet_ms must not be negative, got %d", ErrInvalid, c.ResizeQuietMs)
	case c.World.Marbles < 0:
		return fmt.Errorf("%w: world.marbles must not be negative, got %d", ErrInvalid, c.World.Marbles)
	case c.World.Radius <= 0:
		return fmt.Errorf("%w: world.radius must be positive", ErrInvalid)
	case c.World.MaxStepMs <= 0 || c.World.Substeps < 2:
		return fmt.Errorf("%w: world.max_step_ms must be positive and world.substeps at least 2", ErrInvalid)
	case c.Terminal.Scale <= 0:
		return fmt.Errorf("%w: terminal.scale must be positive", ErrInvalid)
	}
	return nil
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func (c *Config) ResizeQuiet() time.Duration {
	return time.Duration(c.ResizeQuietMs) * time.Millisecond
}

// SeedOrNow returns the configured seed, or a time based one when unset.
func (c *Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

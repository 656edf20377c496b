package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ResizeQuiet() != 250*time.Millisecond {
		t.Errorf("expected 250ms quiet period, got %v", cfg.ResizeQuiet())
	}
	if cfg.CanvasID != "mycanvas" {
		t.Errorf("expected canvas id mycanvas, got %s", cfg.CanvasID)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("crowded")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.World.Marbles != 80 {
		t.Errorf("expected 80 marbles, got %d", cfg.World.Marbles)
	}

	cfg.World.Marbles = 1
	if Presets["crowded"].World.Marbles != 80 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if presets[0] != "calm" {
		t.Errorf("expected sorted names, got %v", presets)
	}
}

func TestLoadOverridesBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marbles.yaml")
	data := "width: 1024\nworld:\n  marbles: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, GetPreset("slow"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Width)
	}
	if cfg.World.Marbles != 3 {
		t.Errorf("expected 3 marbles, got %d", cfg.World.Marbles)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("expected preset frame rate 30 to survive, got %d", cfg.FrameRate)
	}
	if cfg.World.Radius != DefaultRadius {
		t.Errorf("expected default radius, got %f", cfg.World.Radius)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, key := range []string{"resize_quiet_ms: 250", "canvas_id: mycanvas", "  marbles: 25"} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %q in output:\n%s", key, out)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"negative quiet", func(c *Config) { c.ResizeQuietMs = -5 }},
		{"negative marbles", func(c *Config) { c.World.Marbles = -1 }},
		{"zero radius", func(c *Config) { c.World.Radius = 0 }},
		{"one substep", func(c *Config) { c.World.Substeps = 1 }},
		{"zero scale", func(c *Config) { c.Terminal.Scale = 0 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestSeedOrNow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	if cfg.SeedOrNow() != 7 {
		t.Error("expected configured seed")
	}
	cfg.Seed = 0
	if cfg.SeedOrNow() == 0 {
		t.Error("expected time based seed")
	}
}

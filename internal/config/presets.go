package config

import "sort"

var Presets = map[string]*Config{
	"classic": preset(func(c *Config) {}),
	"crowded": preset(func(c *Config) {
		c.World.Marbles = 80
	}),
	"slow": preset(func(c *Config) {
		c.World.MaxSpeed = 0.05
		c.FrameRate = 30
	}),
	"calm": preset(func(c *Config) {
		c.World.Marbles = 8
		c.World.MaxSpeed = 0.1
		c.ResizeQuietMs = 500
	}),
}

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

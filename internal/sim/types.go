package sim

import (
	"errors"
	"time"
)

var ErrConfig = errors.New("sim: invalid run config")

// Config describes one virtual-clock run: Steps ticks spaced Dt
// milliseconds apart.
type Config struct {
	Dt    float64
	Steps int
	Seed  int64
}

type Result struct {
	Seed     int64
	Frames   uint64
	Elapsed  time.Duration
	Viewport string
	Metrics  map[string]float64
}

// StepsPerSec is the wall clock throughput of the run.
func (r *Result) StepsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

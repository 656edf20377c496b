package sim

import (
	"context"
	"fmt"
	"sync"
)

// Ensemble runs the same config over consecutive seeds in parallel.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed in seed order, or the first error.
func (e *Ensemble) Run(ctx context.Context, rc Config) ([]*Result, error) {
	if e.numRuns < 0 {
		return nil, fmt.Errorf("%w: runs must not be negative, got %d", ErrConfig, e.numRuns)
	}
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := rc
			cfgCopy.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = e.base.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

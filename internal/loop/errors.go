package loop

import (
	"errors"
	"fmt"
)

var (
	// ErrInit indicates the engine could not be constructed or bound to the
	// initial viewport.
	ErrInit = errors.New("loop: initialization failed")

	// ErrEngine indicates a step, draw, or resize call failed at runtime.
	ErrEngine = errors.New("loop: engine call failed")

	// ErrStopped is returned by Tick once a fatal failure has been recorded.
	ErrStopped = errors.New("loop: stopped after fatal error")
)

// EngineError wraps a failed engine call with the tick it happened on.
type EngineError struct {
	Op   string
	Tick uint64
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("loop: engine %s failed at tick %d: %v", e.Op, e.Tick, e.Err)
}

func (e *EngineError) Unwrap() []error {
	return []error{ErrEngine, e.Err}
}

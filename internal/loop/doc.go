// Package loop orchestrates a real-time animation: it schedules frames,
// computes inter-frame deltas, gates simulation work behind a pause toggle,
// and keeps the render surface and simulation bounds in sync with the
// viewport.
//
// The package owns no physics and no drawing primitives. It talks to the
// simulation through [Engine] and to the display through [Surface]:
//
//   - [Loop]: the orchestration context, created once per session
//   - [Debouncer]: collapses resize bursts into one settled update
//   - [FrameClock]: delta-time bookkeeping
//   - [Handle]: cancellation token returned by [Loop.Start]
//
// # Example
//
//	l := loop.New(engine, surface, host.Bounds, loop.WithQuietPeriod(250*time.Millisecond))
//	if err := l.Init(); err != nil {
//		return err
//	}
//	h := l.Start(requester)
//	defer h.Stop()
//
// # Thread Safety
//
// A Loop is NOT thread-safe. Every method except [Handle.Stop] must be called
// from the single goroutine (or browser thread) that drives ticks. Debounce
// timers that fire on other goroutines only post into the loop's inbox, which
// is drained at the start of the next tick.
package loop

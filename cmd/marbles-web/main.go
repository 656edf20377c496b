//go:build js && wasm

// Command marbles-web runs the animation on a page canvas. Build with
// GOOS=js GOARCH=wasm and load it next to a <canvas id="mycanvas"> and an
// optional play/pause <button>.
package main

import (
	"log"
	"os"
	"time"

	"github.com/san-kum/marbles/internal/config"
	"github.com/san-kum/marbles/internal/loop"
	"github.com/san-kum/marbles/internal/sprite"
	"github.com/san-kum/marbles/internal/web"
	"github.com/san-kum/marbles/internal/world"
)

func main() {
	// Console output is the only log sink in the browser.
	logger := log.New(os.Stderr, "marbles ", 0)
	cfg := config.DefaultConfig()
	host := web.NewHost(logger)

	surface, err := web.NewSurface(host.Document(), cfg.CanvasID, sprite.Build())
	if err != nil {
		logger.Fatal(err)
	}

	w, h := host.Bounds()
	engine, err := world.New(
		world.WithBounds(w, h),
		world.WithMarbles(cfg.World.Marbles),
		world.WithRadius(cfg.World.Radius),
		world.WithMaxSpeed(cfg.World.MaxSpeed),
		world.WithSubsteps(cfg.World.MaxStepMs, cfg.World.Substeps),
		world.WithSeed(time.Now().UnixNano()),
	)
	if err != nil {
		logger.Fatalf("%v: %v", loop.ErrInit, err)
	}

	// setTimeout and requestAnimationFrame share the page's event loop, so
	// settled resizes run directly instead of waiting for the next frame.
	l := loop.New(engine, surface, host.Bounds,
		loop.WithQuietPeriod(cfg.ResizeQuiet()),
		loop.WithAfterFunc(host.AfterFunc),
		loop.WithDispatch(func(f func()) { f() }),
		loop.WithLogger(logger),
	)
	if err := l.Init(); err != nil {
		logger.Fatal(err)
	}

	handle := host.Attach(l)
	<-handle.Done()
	if err := handle.Err(); err != nil {
		logger.Printf("stopped: %v", err)
	}
	host.Close()
}

package loop

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Loop", func() {
	var (
		rec     *recorder
		engine  *fakeEngine
		surface *fakeSurface
		bounds  *hostBounds
		clock   *fakeClock
		l       *Loop
	)

	BeforeEach(func() {
		rec = &recorder{}
		engine = &fakeEngine{rec: rec, entities: [][2]float64{{1, 2}, {30, 40}}}
		surface = &fakeSurface{rec: rec}
		bounds = &hostBounds{w: 800, h: 600}
		clock = &fakeClock{}
		l = New(engine, surface, bounds.Bounds,
			WithAfterFunc(clock.AfterFunc),
			WithDispatch(func(f func()) { f() }),
		)
	})

	Describe("Init", func() {
		It("applies the host bounds to the surface and the engine", func() {
			Expect(l.Init()).To(Succeed())
			Expect(l.Viewport()).To(Equal(Viewport{800, 600}))
			Expect(surface.size).To(Equal(Viewport{800, 600}))
			Expect(engine.resizes).To(Equal([]Viewport{{800, 600}}))
		})

		It("reports an engine resize failure as an initialization error", func() {
			engine.resizeErr = errors.New("no bounds")
			err := l.Init()
			Expect(err).To(MatchError(ErrInit))
			Expect(err).To(MatchError(ErrEngine))
			Expect(l.Err()).To(HaveOccurred())
			Expect(l.Tick(0)).To(MatchError(ErrStopped))
		})
	})

	Describe("Tick", func() {
		BeforeEach(func() {
			Expect(l.Init()).To(Succeed())
			rec.reset()
		})

		It("steps with a zero delta on the first frame, then draws once", func() {
			Expect(l.Tick(1234.5)).To(Succeed())
			Expect(rec.calls).To(Equal([]string{
				"step 0",
				"clear",
				"draw",
				"sprite 1,2",
				"sprite 30,40",
			}))
		})

		It("passes the elapsed time between ticks", func() {
			Expect(l.Tick(100)).To(Succeed())
			Expect(l.Tick(116.5)).To(Succeed())
			Expect(engine.steps).To(Equal([]float64{0, 16.5}))
			Expect(l.Stats().LastDelta).To(Equal(16.5))
		})

		It("never passes a negative delta", func() {
			for _, ts := range []float64{100, 90, 95, 20, 20} {
				Expect(l.Tick(ts)).To(Succeed())
			}
			Expect(engine.steps).To(Equal([]float64{0, 0, 5, 0, 0}))
			for _, d := range engine.steps {
				Expect(d).To(BeNumerically(">=", 0))
			}
		})

		It("does one step followed by one draw per running tick", func() {
			for i := 0; i < 3; i++ {
				Expect(l.Tick(float64(i) * 16)).To(Succeed())
			}
			var order []string
			for _, c := range rec.calls {
				if c == "step 0" || c == "step 16" || c == "draw" {
					order = append(order, c)
				}
			}
			Expect(order).To(Equal([]string{"step 0", "draw", "step 16", "draw", "step 16", "draw"}))
			Expect(l.Stats().Frames).To(BeEquivalentTo(3))
		})

		It("stops after a step failure", func() {
			engine.stepErr = errors.New("diverged")
			err := l.Tick(0)
			Expect(err).To(MatchError(ErrEngine))
			Expect(err).To(MatchError(engine.stepErr))

			var engErr *EngineError
			Expect(errors.As(err, &engErr)).To(BeTrue())
			Expect(engErr.Op).To(Equal("step"))
			Expect(engErr.Tick).To(BeEquivalentTo(1))

			rec.reset()
			Expect(l.Tick(16)).To(MatchError(ErrStopped))
			Expect(rec.calls).To(BeEmpty())
		})

		It("stops after a draw failure", func() {
			engine.drawErr = errors.New("lost context")
			err := l.Tick(0)
			var engErr *EngineError
			Expect(errors.As(err, &engErr)).To(BeTrue())
			Expect(engErr.Op).To(Equal("draw"))
			Expect(l.Err()).To(Equal(err))
		})
	})

	Describe("Toggle", func() {
		BeforeEach(func() {
			Expect(l.Init()).To(Succeed())
			rec.reset()
		})

		It("starts running", func() {
			Expect(l.Running()).To(BeTrue())
			Expect(l.RunState().String()).To(Equal("running"))
		})

		It("skips step and draw while paused", func() {
			Expect(l.Tick(0)).To(Succeed())
			l.Toggle()
			Expect(l.Running()).To(BeFalse())

			rec.reset()
			Expect(l.Tick(16)).To(Succeed())
			Expect(l.Tick(32)).To(Succeed())
			Expect(rec.calls).To(BeEmpty())
			Expect(surface.sprites).To(HaveLen(2), "previous frame stays on the surface")
			Expect(l.Stats().Ticks).To(BeEquivalentTo(3))
		})

		It("measures the resumed delta from the last paused tick", func() {
			Expect(l.Tick(0)).To(Succeed())
			l.Toggle()
			Expect(l.Tick(16)).To(Succeed())
			Expect(l.Tick(500)).To(Succeed())
			l.Toggle()
			Expect(l.Tick(516)).To(Succeed())
			Expect(engine.steps).To(Equal([]float64{0, 16}))
		})

		It("returns to the original behavior after an even number of toggles", func() {
			Expect(l.Tick(0)).To(Succeed())
			for i := 0; i < 4; i++ {
				l.Toggle()
			}
			Expect(l.Running()).To(BeTrue())
			Expect(l.Tick(20)).To(Succeed())
			Expect(engine.steps).To(Equal([]float64{0, 20}))
			last, seen := l.clock.Last()
			Expect(seen).To(BeTrue())
			Expect(last).To(Equal(20.0))
		})
	})

	Describe("Apply", func() {
		BeforeEach(func() {
			Expect(l.Init()).To(Succeed())
			rec.reset()
		})

		It("is idempotent for identical dimensions", func() {
			Expect(l.Apply(1024, 768)).To(Succeed())
			once := append([]string(nil), rec.calls...)
			Expect(l.Apply(1024, 768)).To(Succeed())
			Expect(rec.calls).To(Equal(once))
			Expect(l.Viewport()).To(Equal(Viewport{1024, 768}))
			Expect(engine.resizes).To(Equal([]Viewport{{800, 600}, {1024, 768}}))
		})

		It("resizes the surface before the engine", func() {
			Expect(l.Apply(10, 20)).To(Succeed())
			Expect(rec.calls).To(Equal([]string{"surface resize 10x20", "engine resize 10x20"}))
		})

		It("clamps negative dimensions to zero", func() {
			Expect(l.Apply(-5, 300)).To(Succeed())
			Expect(l.Viewport()).To(Equal(Viewport{0, 300}))
			Expect(engine.resizes[len(engine.resizes)-1]).To(Equal(Viewport{0, 300}))
		})

		It("treats an engine resize failure as fatal", func() {
			engine.resizeErr = errors.New("bad bounds")
			Expect(l.Apply(1, 1)).To(MatchError(ErrEngine))
			Expect(l.Tick(0)).To(MatchError(ErrStopped))
			Expect(l.Apply(2, 2)).To(MatchError(ErrStopped))
		})
	})

	Describe("NotifyResize", func() {
		BeforeEach(func() {
			Expect(l.Init()).To(Succeed())
			engine.resizes = nil
		})

		It("collapses a burst into one apply using bounds read at fire time", func() {
			l.NotifyResize()
			bounds.w, bounds.h = 900, 600
			clock.Advance(50 * time.Millisecond)
			l.NotifyResize()
			bounds.w, bounds.h = 1000, 700
			clock.Advance(50 * time.Millisecond)
			l.NotifyResize()
			bounds.w, bounds.h = 1100, 800
			Expect(clock.Live()).To(Equal(1))
			Expect(l.ResizeState()).To(Equal(DebouncePending))

			clock.Advance(249 * time.Millisecond)
			Expect(engine.resizes).To(BeEmpty())

			clock.Advance(time.Millisecond)
			Expect(clock.now).To(Equal(350 * time.Millisecond))
			Expect(engine.resizes).To(Equal([]Viewport{{1100, 800}}))
			Expect(l.Viewport()).To(Equal(Viewport{1100, 800}))
			Expect(l.ResizeState()).To(Equal(DebounceFired))
		})

		It("does nothing when the settled size did not change", func() {
			l.NotifyResize()
			clock.Advance(time.Second)
			Expect(engine.resizes).To(BeEmpty())
		})

		It("never fires after Close", func() {
			l.NotifyResize()
			l.Close()
			bounds.w = 10
			clock.Advance(time.Second)
			Expect(engine.resizes).To(BeEmpty())
			Expect(clock.Live()).To(Equal(0))
		})
	})

	Describe("default dispatch", func() {
		It("applies a settled resize on the next tick", func() {
			l = New(engine, surface, bounds.Bounds, WithAfterFunc(clock.AfterFunc))
			Expect(l.Init()).To(Succeed())
			engine.resizes = nil

			bounds.w = 640
			l.NotifyResize()
			clock.Advance(DefaultQuietPeriod)
			Expect(engine.resizes).To(BeEmpty())

			Expect(l.Tick(0)).To(Succeed())
			Expect(engine.resizes).To(Equal([]Viewport{{640, 600}}))
		})

		It("applies a settled resize while paused", func() {
			l = New(engine, surface, bounds.Bounds, WithAfterFunc(clock.AfterFunc))
			Expect(l.Init()).To(Succeed())
			l.Toggle()

			bounds.h = 480
			l.NotifyResize()
			clock.Advance(DefaultQuietPeriod)
			Expect(l.Tick(0)).To(Succeed())
			Expect(l.Viewport()).To(Equal(Viewport{800, 480}))
		})
	})
})

package loop

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Start", func() {
	var (
		engine *fakeEngine
		req    *manualRequester
		l      *Loop
	)

	BeforeEach(func() {
		rec := &recorder{}
		engine = &fakeEngine{rec: rec}
		req = &manualRequester{}
		l = New(engine, &fakeSurface{rec: rec}, func() (int, int) { return 800, 600 })
		Expect(l.Init()).To(Succeed())
	})

	It("requests the next frame before running the tick", func() {
		h := l.Start(req)
		defer h.Stop()
		Expect(req.Outstanding()).To(Equal(1))

		Expect(req.Frame(0)).To(BeTrue())
		Expect(req.Outstanding()).To(Equal(1))
		Expect(engine.steps).To(Equal([]float64{0}))
	})

	It("keeps scheduling while paused", func() {
		h := l.Start(req)
		defer h.Stop()
		l.Toggle()
		for i := 0; i < 5; i++ {
			Expect(req.Frame(float64(i) * 16)).To(BeTrue())
		}
		Expect(engine.steps).To(BeEmpty())
		Expect(req.Outstanding()).To(Equal(1))

		l.Toggle()
		Expect(req.Frame(80)).To(BeTrue())
		Expect(engine.steps).To(Equal([]float64{16}))
	})

	It("withdraws the outstanding request on Stop", func() {
		h := l.Start(req)
		Expect(req.Frame(0)).To(BeTrue())
		h.Stop()
		h.Stop()
		Expect(h.Done()).To(BeClosed())
		Expect(h.Err()).NotTo(HaveOccurred())
		Expect(req.Outstanding()).To(BeZero())
		Expect(req.Frame(16)).To(BeFalse())
	})

	It("finishes with the engine error", func() {
		h := l.Start(req)
		engine.stepErr = errors.New("boom")
		Expect(req.Frame(0)).To(BeTrue())
		Expect(h.Done()).To(BeClosed())
		Expect(h.Err()).To(MatchError(ErrEngine))
		Expect(req.Outstanding()).To(BeZero())
	})
})

var _ = Describe("Run", func() {
	It("ticks until the context ends", func() {
		rec := &recorder{}
		engine := &fakeEngine{rec: rec}
		l := New(engine, &fakeSurface{rec: rec}, func() (int, int) { return 10, 10 })
		Expect(l.Init()).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		defer cancel()
		Expect(l.Run(ctx, 5*time.Millisecond)).To(Succeed())
		Expect(l.Stats().Ticks).To(BeNumerically(">", 1))
		for _, d := range engine.steps {
			Expect(d).To(BeNumerically(">=", 0))
		}
	})

	It("returns the first engine error", func() {
		rec := &recorder{}
		engine := &fakeEngine{rec: rec, stepErr: errors.New("nan")}
		l := New(engine, &fakeSurface{rec: rec}, func() (int, int) { return 10, 10 })
		Expect(l.Init()).To(Succeed())
		Expect(l.Run(context.Background(), time.Millisecond)).To(MatchError(ErrEngine))
	})
})

var _ = Describe("Millis", func() {
	It("converts durations to fractional milliseconds", func() {
		Expect(Millis(1500 * time.Microsecond)).To(Equal(1.5))
		Expect(Millis(2 * time.Second)).To(Equal(2000.0))
	})
})

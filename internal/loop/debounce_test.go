package loop

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Debouncer", func() {
	var (
		clock   *fakeClock
		settled int
		queued  []func()
		d       *Debouncer
	)

	BeforeEach(func() {
		clock = &fakeClock{}
		settled = 0
		queued = nil
		d = NewDebouncer(250*time.Millisecond, clock.AfterFunc, nil, func() { settled++ })
	})

	It("starts idle", func() {
		Expect(d.State()).To(Equal(DebounceIdle))
		Expect(d.State().String()).To(Equal("idle"))
		Expect(d.Quiet()).To(Equal(250 * time.Millisecond))
	})

	It("moves idle to pending to fired", func() {
		d.Notify()
		Expect(d.State()).To(Equal(DebouncePending))
		clock.Advance(250 * time.Millisecond)
		Expect(d.State()).To(Equal(DebounceFired))
		Expect(settled).To(Equal(1))
	})

	It("keeps exactly one timer alive across notifications", func() {
		for i := 0; i < 10; i++ {
			d.Notify()
			Expect(clock.Live()).To(Equal(1))
			clock.Advance(20 * time.Millisecond)
		}
		clock.Advance(time.Second)
		Expect(settled).To(Equal(1))
	})

	It("settles again after a later burst", func() {
		d.Notify()
		clock.Advance(300 * time.Millisecond)
		d.Notify()
		Expect(d.State()).To(Equal(DebouncePending))
		clock.Advance(300 * time.Millisecond)
		Expect(settled).To(Equal(2))
	})

	It("returns to idle and stays silent after Close", func() {
		d.Notify()
		d.Close()
		Expect(d.State()).To(Equal(DebounceIdle))
		d.Notify()
		clock.Advance(time.Second)
		Expect(settled).To(BeZero())
		Expect(clock.Live()).To(BeZero())
	})

	Context("with a deferred dispatcher", func() {
		BeforeEach(func() {
			d = NewDebouncer(250*time.Millisecond, clock.AfterFunc,
				func(f func()) { queued = append(queued, f) },
				func() { settled++ })
		})

		It("drops a fired timer that was superseded before dispatch", func() {
			d.Notify()
			clock.Advance(250 * time.Millisecond)
			Expect(queued).To(HaveLen(1))

			d.Notify()
			queued[0]()
			Expect(settled).To(BeZero())
			Expect(d.State()).To(Equal(DebouncePending))

			clock.Advance(250 * time.Millisecond)
			queued[1]()
			Expect(settled).To(Equal(1))
		})

		It("drops a fired timer when closed before dispatch", func() {
			d.Notify()
			clock.Advance(250 * time.Millisecond)
			d.Close()
			queued[0]()
			Expect(settled).To(BeZero())
		})
	})

	Context("with real timers", func() {
		It("queues fired timers until Flush when no dispatcher is given", func() {
			var count int
			timed := NewDebouncer(10*time.Millisecond, nil, nil, func() { count++ })
			timed.Notify()

			Eventually(func() int {
				timed.queue.mu.Lock()
				defer timed.queue.mu.Unlock()
				return len(timed.queue.fns)
			}).Should(Equal(1))
			Expect(count).To(BeZero())
			Expect(timed.State()).To(Equal(DebouncePending))

			timed.Flush()
			Expect(count).To(Equal(1))
			Expect(timed.State()).To(Equal(DebounceFired))
		})

		It("settles on the goroutine that drains the dispatcher", func() {
			fired := make(chan func(), 1)
			var count int
			timed := NewDebouncer(10*time.Millisecond, StdAfterFunc,
				func(f func()) { fired <- f },
				func() { count++ })
			timed.Notify()

			var f func()
			Eventually(fired).Should(Receive(&f))
			f()
			Expect(count).To(Equal(1))
			Expect(timed.State()).To(Equal(DebounceFired))
		})
	})
})

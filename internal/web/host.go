//go:build js && wasm

package web

import (
	"log"
	"syscall/js"
	"time"

	"github.com/san-kum/marbles/internal/loop"
)

// Host owns the browser callbacks wired to one loop.
type Host struct {
	window   js.Value
	document js.Value
	loop     *loop.Loop
	handle   *loop.Handle
	button   js.Value
	subs     []subscription
	logger   *log.Logger
	closed   bool
}

type subscription struct {
	target js.Value
	event  string
	cb     js.Func
}

func NewHost(logger *log.Logger) *Host {
	return &Host{
		window:   js.Global(),
		document: js.Global().Get("document"),
		logger:   logger,
	}
}

func (h *Host) Document() js.Value { return h.document }

// Bounds reports the window's inner size.
func (h *Host) Bounds() (int, int) {
	return h.window.Get("innerWidth").Int(), h.window.Get("innerHeight").Int()
}

// RequestFrame implements loop.FrameRequester with requestAnimationFrame.
func (h *Host) RequestFrame(fn func(ts float64)) loop.CancelFunc {
	var cb js.Func
	pending := true
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		pending = false
		cb.Release()
		fn(args[0].Float())
		return nil
	})
	id := h.window.Call("requestAnimationFrame", cb)
	return func() {
		if !pending {
			return
		}
		pending = false
		h.window.Call("cancelAnimationFrame", id)
		cb.Release()
	}
}

type jsTimer struct {
	window js.Value
	id     js.Value
	cb     js.Func
	fired  bool
	done   bool
}

func (t *jsTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.window.Call("clearTimeout", t.id)
	t.cb.Release()
	return !t.fired
}

// AfterFunc implements loop.AfterFunc with setTimeout. Callbacks run on the
// event loop, the same thread as animation frames.
func (h *Host) AfterFunc(d time.Duration, f func()) loop.Timer {
	t := &jsTimer{window: h.window}
	t.cb = js.FuncOf(func(js.Value, []js.Value) any {
		t.fired = true
		t.done = true
		t.cb.Release()
		f()
		return nil
	})
	t.id = h.window.Call("setTimeout", t.cb, d.Milliseconds())
	return t
}

func (h *Host) listen(target js.Value, event string, fn func(ev js.Value)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	h.subs = append(h.subs, subscription{target: target, event: event, cb: cb})
	target.Call("addEventListener", event, cb)
}

// Attach wires DOM events to l and starts the frame loop. A click on the
// page's first <button> or a keydown anywhere else toggles the animation.
func (h *Host) Attach(l *loop.Loop) *loop.Handle {
	h.loop = l
	h.listen(h.window, "resize", func(js.Value) { l.NotifyResize() })
	if btn := h.document.Call("querySelector", "button"); !btn.IsNull() {
		h.button = btn
		h.listen(btn, "click", func(js.Value) { l.Toggle() })
	}
	h.listen(h.document, "keydown", h.onKeydown)
	h.listen(h.window, "pagehide", func(js.Value) { h.Close() })
	h.handle = l.Start(h)
	return h.handle
}

// onKeydown toggles unless the key went to the button. A focused button
// turns Space and Enter into its own click, which already toggles.
func (h *Host) onKeydown(ev js.Value) {
	if h.button.Truthy() && ev.Truthy() && ev.Get("target").Equal(h.button) {
		return
	}
	h.loop.Toggle()
}

// Close stops the frame loop, cancels pending resizes and releases every
// listener.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	if h.handle != nil {
		h.handle.Stop()
	}
	if h.loop != nil {
		h.loop.Close()
	}
	for _, sub := range h.subs {
		sub.target.Call("removeEventListener", sub.event, sub.cb)
		sub.cb.Release()
	}
	h.subs = nil
	h.logger.Printf("host closed")
}

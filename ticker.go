package spriteloop

import (
	"sync"
	"time"
)

// TickSource delivers the timestamps that drive frame-advance decisions.
// Abstracting the host's display-frame callback behind this interface lets
// controller logic run against synthetic timestamps in tests and tools.
//
// Under Ebitengine the usual driver is simply calling Controller.OnTick from
// the game's Update method; a TickSource is for hosts without their own loop.
type TickSource interface {
	// Subscribe registers fn and returns a cancel func that stops delivery.
	Subscribe(fn func(now time.Time)) (cancel func())
}

// Attach binds the controller to a tick source. The returned stop func
// detaches it; call it before Dispose when the source outlives the
// controller.
func (c *Controller) Attach(src TickSource) (stop func()) {
	return src.Subscribe(c.OnTick)
}

// TimeTicker is a wall-clock TickSource backed by time.Ticker. Callbacks are
// delivered on the ticker's goroutine, so a host using it must not drive the
// same controller from anywhere else.
type TimeTicker struct {
	// Interval between ticks; defaults to ~60Hz when unset.
	Interval time.Duration
}

func (t *TimeTicker) Subscribe(fn func(now time.Time)) (cancel func()) {
	d := t.Interval
	if d <= 0 {
		d = time.Second / 60
	}
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				fn(now)
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualTicker is a TickSource fed by the caller, for tests and tools.
// Not safe for concurrent use.
type ManualTicker struct {
	fns []func(time.Time)
}

func (m *ManualTicker) Subscribe(fn func(now time.Time)) (cancel func()) {
	m.fns = append(m.fns, fn)
	i := len(m.fns) - 1
	return func() { m.fns[i] = nil }
}

// Tick delivers now to every live subscriber in subscription order.
func (m *ManualTicker) Tick(now time.Time) {
	for _, fn := range m.fns {
		if fn != nil {
			fn(now)
		}
	}
}

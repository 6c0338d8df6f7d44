package search

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer holds at most one pending value. Submitting a new value cancels
// the previous timer, so only the latest value within the window is evaluated.
type Debouncer struct {
	clock  clockwork.Clock
	window time.Duration
	fn     func(string)

	mu    sync.Mutex
	timer clockwork.Timer
	seq   uint64
}

// NewDebouncer calls fn with the latest submitted value once window has passed quietly
func NewDebouncer(clock clockwork.Clock, window time.Duration, fn func(string)) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, window: window, fn: fn}
}

// Submit replaces any pending value with v
func (d *Debouncer) Submit(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(seq, v) })
}

// Stop discards the pending value
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

func (d *Debouncer) fire(seq uint64, v string) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

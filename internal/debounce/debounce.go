package debounce

import (
	"sync"
	"time"

	"moviesearch/internal/clock"
)

// Debouncer delays a call until no new call has arrived for the wait
// window. At most one call is pending at a time.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	clock   clock.Clock
	timer   clock.Timer
	pending func()
	gen     uint64
	closed  bool
}

// New creates a debouncer. A nil clock means the wall clock.
func New(wait time.Duration, c clock.Clock) *Debouncer {
	if c == nil {
		c = clock.Real()
	}
	return &Debouncer{wait: wait, clock: c}
}

// Trigger cancels any pending call and schedules fn after the wait window
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.stopLocked()

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Flush runs the pending call now. It reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a call is waiting for the window to elapse
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending call and ignores later triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race with Trigger/Cancel must not run
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

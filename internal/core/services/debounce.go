package services

import (
	"sync"
	"time"
)

// Debouncer delays a callback until input has been quiet for a fixed period.
// Each Push supersedes the previous one: only the last value pushed within a
// quiet window is delivered.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(string)
	timer   *time.Timer
	seq     uint64
	pending string
	armed   bool
}

// NewDebouncer creates a debouncer that calls fn after delay of quiet.
// A non-positive delay delivers every push synchronously.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// SetDelay changes the quiet period for subsequent pushes.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Push schedules value, cancelling any pending value.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	d.stopLocked()
	d.seq++
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn(value)
		return
	}

	seq := d.seq
	d.pending = value
	d.armed = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
	d.mu.Unlock()
}

// Cancel drops any pending value.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
}

// Flush delivers the pending value immediately, if any.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	value := d.pending
	d.stopLocked()
	d.seq++
	d.mu.Unlock()

	d.fn(value)
	return true
}

// Pending reports whether a value is waiting for the quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// A timer that lost the race with Stop must stay inert.
	if seq != d.seq || !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.pending = ""
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

// stopLocked stops the pending timer. Caller must hold mu.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
	d.pending = ""
}

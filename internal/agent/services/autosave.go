// Package services wires the domain pieces together: debounced progress
// autosave, the concurrent asset upload pipeline, the commit sequence, and
// the session facade consumed by the device UI.
package services

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of mutations into one deferred save. It holds a
// single timer slot: every Trigger cancels and replaces any pending timer, so
// at most one save is ever scheduled. The generation counter invalidates
// fires from replaced timers, so a stale fire can neither run the save nor
// clobber the live timer slot.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	pending bool
	closed  bool
}

// NewDebouncer returns a debouncer that invokes fn once the trigger stream
// has been quiet for delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiet-window timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Flush runs a pending save immediately, if any. Called when the session
// surface unmounts so the last edits are not lost to the quiet window. The
// generation bump invalidates the scheduled timer, including one whose fire
// is already in flight, so the save runs exactly once.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fn()
}

// Close stops the debouncer; a pending save is flushed first.
func (d *Debouncer) Close() {
	d.Flush()
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

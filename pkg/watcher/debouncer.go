// Package watcher reloads the sheet configuration when its file changes.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period before a reload fires.
// Editors often write a file in several steps (truncate, write, rename).
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer collapses a burst of change notifications into one reload.
// Only the callback from the most recent Trigger runs.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	gen      uint64
	fired    uint64
}

// NewDebouncer creates a Debouncer; a zero duration uses DefaultDebounceDuration
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger (re)starts the quiet period and schedules fn to run at its end
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// A later Trigger or Cancel may have raced the timer.
		stale := gen != d.gen
		if !stale {
			d.timer = nil
			d.fired++
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Cancel drops any pending callback
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Fired returns how many callbacks have run
func (d *Debouncer) Fired() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// Duration returns the quiet period
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

package config

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into a single call of fn.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fn     func()
}

func newDebouncer(window time.Duration, fn func()) *debouncer {
	return &debouncer{window: window, fn: fn}
}

// Trigger schedules fn to run once no further trigger arrived within the window.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels a pending call.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

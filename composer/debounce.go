package composer

import (
	"sync"
	"time"
)

// DefaultPreviewDebounce is the quiet window applied to free-text edits
// before the preview refreshes.
const DefaultPreviewDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid triggers into one deferred call: each Trigger
// cancels any pending call and reschedules, so only the last edit within the
// quiet window fires. At most one timer is pending at a time.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultPreviewDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet window, cancelling any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package toolbar

import (
	"sync"
	"time"
)

// debouncer coalesces rapid calls into one callback after a quiet period.
// The sequence number invalidates timer callbacks superseded by a newer Call
// or a Cancel.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	callback func()
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{delay: delay, callback: callback}
}

// Call schedules the callback after the delay, superseding any pending call.
func (d *debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := d.seq != seq
		d.mu.Unlock()
		if !stale {
			d.callback()
		}
	})
}

// Cancel drops any pending call.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

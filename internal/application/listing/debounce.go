package listing

import (
	"context"
	"sync"
	"time"

	"github.com/rezkam/newsdesk/internal/clock"
)

// DefaultDebounceWindow is the quiescence window for search input.
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer delays publication of rapidly changing text until no Commit has
// arrived for the window (trailing edge). Every Commit restarts the window.
//
// Cancelling ctx, or calling Cancel or Close, drops a pending publication.
// publish runs without the debouncer's lock held.
type Debouncer struct {
	ctx     context.Context
	clock   clock.Clock
	window  time.Duration
	publish func(string)

	mu      sync.Mutex
	timer   *clock.Timer
	gen     uint64
	value   string
	pending bool

	release func() bool
}

// NewDebouncer returns a Debouncer bound to ctx. A non-positive window uses
// DefaultDebounceWindow.
func NewDebouncer(ctx context.Context, clk clock.Clock, window time.Duration, publish func(string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if clk == nil {
		clk = clock.Real()
	}

	d := &Debouncer{
		ctx:     ctx,
		clock:   clk,
		window:  window,
		publish: publish,
	}
	d.release = context.AfterFunc(ctx, d.Cancel)
	return d
}

// Commit records raw as the latest value and restarts the window.
func (d *Debouncer) Commit(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.Err() != nil {
		return
	}

	d.stopLocked()
	d.value = raw
	d.pending = true
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
}

// Flush publishes the pending value immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending || d.ctx.Err() != nil {
		d.mu.Unlock()
		return
	}
	d.stopLocked()
	value := d.value
	d.pending = false
	d.mu.Unlock()

	d.publish(value)
}

// Cancel drops any pending publication.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.pending = false
}

// Close cancels any pending publication and detaches from ctx.
func (d *Debouncer) Close() {
	d.release()
	d.Cancel()
}

// Pending reports whether a publication is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// stopLocked stops the timer and invalidates a callback that is already running.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending || d.ctx.Err() != nil {
		d.mu.Unlock()
		return
	}
	value := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.publish(value)
}

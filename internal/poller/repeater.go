package poller

import (
	"sync"
	"time"
)

// Repeater invokes a function on a fixed cadence in a background goroutine.
//
// Unlike a bare time.Ticker, a Repeater is owned and torn down explicitly:
// [Repeater.Stop] only signals the loop so it may be called while holding
// locks the callback also needs; [Repeater.Wait] blocks until every loop
// started so far has exited. A stopped Repeater can be started again.
//
// Each loop has its own generation, passed to fn. A callback that may block
// before acting should confirm with [Repeater.Current] that its loop was not
// stopped in the meantime.
type Repeater struct {
	interval time.Duration
	fn       func(gen uint64)

	mu   sync.Mutex
	stop chan struct{}
	gen  uint64
	wg   sync.WaitGroup
}

// NewRepeater creates a stopped [Repeater]. A non-positive interval makes
// Start a no-op.
func NewRepeater(interval time.Duration, fn func(gen uint64)) *Repeater {
	return &Repeater{interval: interval, fn: fn}
}

// Start launches the loop. The first call to fn happens one interval after
// Start. Returns false if the repeater is already running or disabled.
func (r *Repeater) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.interval <= 0 || r.stop != nil {
		return false
	}

	stop := make(chan struct{})
	r.stop = stop
	r.gen++
	gen := r.gen
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// a tick and a stop can both be ready; stop wins
				select {
				case <-stop:
					return
				default:
				}
				r.fn(gen)
			}
		}
	}()

	return true
}

// Stop signals the loop to exit without waiting for it. Idempotent.
func (r *Repeater) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Running reports whether a loop is currently scheduled.
func (r *Repeater) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

// Current reports whether gen identifies the loop that is running now.
// It is false once that loop has been stopped, even if a newer one started.
func (r *Repeater) Current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil && r.gen == gen
}

// Wait blocks until all loops have exited. Call after Stop.
func (r *Repeater) Wait() {
	r.wg.Wait()
}

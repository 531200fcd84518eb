package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/quickfind/internal/logger"
)

// minSweepInterval bounds how often the janitor may run.
const minSweepInterval = time.Second

// Sweeper removes expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps expired cache entries so a long-running
// process does not hold every query it ever served.
type Janitor struct {
	target Sweeper

	mu       sync.Mutex
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	resetCh  chan time.Duration
}

// NewJanitor creates a janitor sweeping target every interval.
func NewJanitor(target Sweeper, interval time.Duration) *Janitor {
	return &Janitor{
		target:   target,
		interval: max(interval, minSweepInterval),
		resetCh:  make(chan time.Duration, 1),
	}
}

// Start runs the sweep loop. It blocks until Stop is called or ctx is done.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.stopCh = make(chan struct{})
	stopCh := j.stopCh
	interval := j.interval
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case d := <-j.resetCh:
			ticker.Reset(d)
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Stop ends a running loop. It is a no-op when the janitor is not running.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	j.running = false
	close(j.stopCh)
}

// Running reports whether the sweep loop is active.
func (j *Janitor) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// SetInterval changes the sweep interval, taking effect on a running loop.
func (j *Janitor) SetInterval(interval time.Duration) {
	interval = max(interval, minSweepInterval)
	j.mu.Lock()
	j.interval = interval
	j.mu.Unlock()

	// Keep only the latest pending change.
	select {
	case <-j.resetCh:
	default:
	}
	select {
	case j.resetCh <- interval:
	default:
	}
}

// Interval returns the sweep interval.
func (j *Janitor) Interval() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.interval
}

// Sweep runs one sweep immediately and returns the number of removed entries.
func (j *Janitor) Sweep() int {
	n := j.target.Sweep()
	if n > 0 {
		logger.Debug("cache sweep removed %d expired entries", n)
	}
	return n
}

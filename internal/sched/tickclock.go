// internal/sched/tickclock.go

package sched

import (
	"context"
	"sync/atomic"
	"time"
)

// TickClock paces simulated ticks against the wall clock for playback.
// It never alters simulated time; it only decides when the next whole tick runs.
type TickClock struct {
	interval time.Duration
	count    atomic.Int64
}

// NewTickClock creates a clock delivering one tick per interval.
// A non-positive interval delivers ticks as fast as they are consumed.
func NewTickClock(interval time.Duration) *TickClock {
	return &TickClock{interval: interval}
}

// Drive calls step once per tick until it reports done, returns an error, or
// ctx is cancelled. Cancellation is only observed between steps.
func (c *TickClock) Drive(ctx context.Context, step func() (done bool, err error)) error {
	var tickCh <-chan time.Time
	if c.interval > 0 {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	for {
		if tickCh != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tickCh:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		c.count.Add(1)
		done, err := step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Count returns the number of ticks delivered so far.
func (c *TickClock) Count() int64 {
	return c.count.Load()
}

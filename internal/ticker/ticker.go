// Package ticker provides cancellable recurring tasks behind an interface so
// controllers can be driven by a manual clock in tests.
package ticker

import (
	"log/slog"
	"sync"
	"time"
)

// Cadence decides when a recurring task fires next.
type Cadence interface {
	// Next returns the delay from after until the next run. An error ends
	// the task.
	Next(after time.Time) (time.Duration, error)
}

// Every is a fixed-interval Cadence.
type Every time.Duration

func (e Every) Next(time.Time) (time.Duration, error) {
	return time.Duration(e), nil
}

// Handle cancels a scheduled task. Stop is idempotent and never interrupts a
// run that is already executing.
type Handle interface {
	Stop()
}

// Scheduler starts recurring tasks.
type Scheduler interface {
	Schedule(c Cadence, fn func()) Handle
}

// Real schedules tasks on wall-clock timers.
type Real struct{}

// Schedule runs fn on its own goroutine at every tick of c until the handle
// is stopped. Runs never overlap.
func (Real) Schedule(c Cadence, fn func()) Handle {
	h := &realHandle{done: make(chan struct{})}
	go h.loop(c, fn)
	return h
}

type realHandle struct {
	done chan struct{}
	once sync.Once
}

func (h *realHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}

func (h *realHandle) loop(c Cadence, fn func()) {
	for {
		d, err := c.Next(time.Now())
		if err != nil {
			slog.Warn("ticker stopped", "error", err)
			return
		}
		t := time.NewTimer(d)
		select {
		case <-h.done:
			t.Stop()
			return
		case <-t.C:
		}
		// Stop may race with the timer; it wins.
		select {
		case <-h.done:
			return
		default:
		}
		fn()
	}
}

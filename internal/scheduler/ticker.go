package scheduler

import (
	"context"
	"time"
)

// ConsolidateFunc runs one consolidation cycle (decay, transfer, replay,
// layer transitions, Hebbian decay) and reports how many memories it
// touched, or an error.
type ConsolidateFunc func(ctx context.Context) (int, error)

// Scheduler ticks a consolidation cycle at a fixed interval for as long as
// the engine process is running (SPEC_FULL §4.12). It holds no persistent
// state of its own — Daemon's PID/state files are what let a second CLI
// invocation discover that a scheduler is active.
type Scheduler struct {
	interval    time.Duration
	consolidate ConsolidateFunc
	stop        chan struct{}
	done        chan struct{}
}

// NewScheduler builds a Scheduler that calls fn every interval.
func NewScheduler(interval time.Duration, fn ConsolidateFunc) *Scheduler {
	return &Scheduler{
		interval:    interval,
		consolidate: fn,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run blocks, ticking consolidation cycles until ctx is canceled or Stop is
// called. Each tick's error is logged and does not stop the loop — a single
// failed cycle (e.g. a locked database) should not take the scheduler down.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info("consolidation scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("consolidation scheduler stopping: context canceled")
			return
		case <-s.stop:
			log.Info("consolidation scheduler stopping")
			return
		case <-ticker.C:
			touched, err := s.consolidate(ctx)
			if err != nil {
				log.Error("consolidation cycle failed", "error", err)
				continue
			}
			log.Info("consolidation cycle complete", "memories_touched", touched)
		}
	}
}

// Stop signals Run to return and blocks until it has.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

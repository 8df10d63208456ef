package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically removes expired entries from the cache that owns it.
// The ticker goroutine only signals that a sweep is due; the eviction work
// runs through the owning cache's mutex, so sweeps never race caller
// operations.
//
// Start, Stop and Restart are idempotent and safe for concurrent use.
type Sweeper struct {
	log   *slog.Logger
	sweep func() int

	mu       sync.Mutex
	interval time.Duration
	disabled bool
	done     chan struct{}
	stopped  chan struct{}
}

func newSweeper(interval time.Duration, log *slog.Logger, sweep func() int) *Sweeper {
	return &Sweeper{
		log:      log,
		sweep:    sweep,
		interval: interval,
	}
}

// Start launches the sweep goroutine. Calling Start while running has no
// effect. Starting a sweeper on a cache whose entries never expire fails
// with ErrSweepWithoutTTL.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return ErrSweepWithoutTTL
	}
	if s.done != nil {
		return nil
	}

	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(s.interval, s.done, s.stopped)

	s.log.Debug("sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop halts periodic sweeping and waits for the goroutine to exit; a sweep
// already in flight runs to completion first. Stopping a stopped sweeper has
// no effect.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	done, stopped := s.done, s.stopped
	s.done, s.stopped = nil, nil
	s.mu.Unlock()

	if done == nil {
		return
	}

	close(done)
	<-stopped
	s.log.Debug("sweeper stopped")
}

// Restart stops the sweeper and starts it again, with a new tick period when
// interval is positive.
func (s *Sweeper) Restart(interval time.Duration) error {
	s.Stop()

	s.mu.Lock()
	if interval > 0 {
		s.interval = interval
	}
	s.mu.Unlock()

	return s.Start()
}

// Running reports whether the sweep goroutine is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Interval returns the current tick period.
func (s *Sweeper) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Sweeper) run(interval time.Duration, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

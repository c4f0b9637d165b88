package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"car-scraper/models"
	"car-scraper/utils"
)

// CycleRunner runs one complete cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*models.CycleReport, error)
}

// Scheduler triggers a cycle at start and then on every interval tick. A
// tick that fires while a cycle is still running is dropped.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   *utils.Logger

	busy    atomic.Bool
	wg      sync.WaitGroup
	skipped atomic.Int64
}

func NewScheduler(runner CycleRunner, interval time.Duration, logger *utils.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger.With("scheduler"),
	}
}

// Run blocks until ctx is cancelled, then waits for the in-flight cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("running every %v", s.interval)
	s.Trigger(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			s.Trigger(ctx)
		}
	}
}

// Trigger starts a cycle in the background unless one is already running.
// It reports whether a cycle was started.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.busy.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.logger.Warn("previous cycle still running, skipping this trigger")
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("cycle panicked outside its own recovery: %v", r)
			}
		}()

		if _, err := s.runner.RunCycle(ctx); err != nil {
			s.logger.Error("cycle failed: %v", err)
		}
	}()
	return true
}

// Skipped returns how many triggers were dropped because a cycle was busy.
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// Wait blocks until the in-flight cycle, if any, has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

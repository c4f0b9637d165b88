package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic. It gives up early
// when ctx is cancelled.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, r.MaxAttempts, lastErr, delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return fmt.Errorf("%s cancelled: %w", operationName, err)
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}

// Backoff controls the restart delay used by Supervise.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	// A run lasting at least this long resets the delay to Initial.
	ResetAfter time.Duration
}

// DefaultBackoff mirrors the one-minute pause the worker used to take before
// restarting, growing up to ten minutes on repeated failures.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:    time.Minute,
		Max:        10 * time.Minute,
		ResetAfter: 30 * time.Minute,
	}
}

func (b Backoff) next(cur time.Duration) time.Duration {
	if cur <= 0 {
		return b.Initial
	}
	n := cur * 2
	if b.Max > 0 && n > b.Max {
		n = b.Max
	}
	return n
}

// Supervise runs fn until ctx is cancelled, restarting it whenever it
// returns or panics. Restarts are delayed with exponential back-off.
func Supervise(ctx context.Context, name string, fn func(context.Context) error, b Backoff, logger *Logger) {
	var delay time.Duration

	for {
		started := time.Now()
		err := runGuarded(ctx, fn)
		if ctx.Err() != nil {
			logger.Info("[supervisor] %s stopped", name)
			return
		}

		if b.ResetAfter > 0 && time.Since(started) >= b.ResetAfter {
			delay = 0
		}
		delay = b.next(delay)

		if err != nil {
			logger.Error("[supervisor] %s exited: %v, restarting in %v", name, err, delay)
		} else {
			logger.Warn("[supervisor] %s returned unexpectedly, restarting in %v", name, delay)
		}

		if sleepCtx(ctx, delay) != nil {
			logger.Info("[supervisor] %s stopped", name)
			return
		}
	}
}

func runGuarded(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

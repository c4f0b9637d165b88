package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scraper/models"
	"car-scraper/utils"
)

type countingRunner struct {
	runs    atomic.Int32
	release chan struct{}
	err     error
}

func (r *countingRunner) RunCycle(ctx context.Context) (*models.CycleReport, error) {
	r.runs.Add(1)
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
		}
	}
	return &models.CycleReport{}, r.err
}

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	r := &countingRunner{}
	s := NewScheduler(r, 20*time.Millisecond, utils.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, r.runs.Load(), int32(3))
}

func TestScheduler_SkipsWhileBusy(t *testing.T) {
	r := &countingRunner{release: make(chan struct{})}
	s := NewScheduler(r, time.Hour, utils.Discard())
	ctx := context.Background()

	require.True(t, s.Trigger(ctx))
	assert.False(t, s.Trigger(ctx))
	assert.False(t, s.Trigger(ctx))
	assert.Equal(t, int64(2), s.Skipped())

	close(r.release)
	s.Wait()

	assert.Equal(t, int32(1), r.runs.Load())
	assert.True(t, s.Trigger(ctx), "a new trigger runs once the cycle is done")
	s.Wait()
	assert.Equal(t, int32(2), r.runs.Load())
}

func TestScheduler_CycleErrorDoesNotStopSchedule(t *testing.T) {
	r := &countingRunner{err: errors.New("boom")}
	s := NewScheduler(r, 15*time.Millisecond, utils.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	_ = s.Run(ctx)
	assert.GreaterOrEqual(t, r.runs.Load(), int32(2))
}

type panickingRunner struct {
	runs atomic.Int32
}

func (r *panickingRunner) RunCycle(context.Context) (*models.CycleReport, error) {
	r.runs.Add(1)
	panic("notifier blew up while reporting")
}

func TestScheduler_PanicInCycleResetsBusy(t *testing.T) {
	r := &panickingRunner{}
	s := NewScheduler(r, time.Hour, utils.Discard())
	ctx := context.Background()

	require.True(t, s.Trigger(ctx))
	s.Wait()

	assert.True(t, s.Trigger(ctx), "busy flag is cleared after a panic")
	s.Wait()
	assert.Equal(t, int32(2), r.runs.Load())
}

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidatesJobs(t *testing.T) {
	s := New(logger.NewNopLogger())

	tests := []struct {
		name string
		job  Job
	}{
		{name: "missing name", job: Job{Period: time.Second, Run: func(context.Context) {}}},
		{name: "missing run", job: Job{Name: "noop", Period: time.Second}},
		{name: "zero period", job: Job{Name: "noop", Run: func(context.Context) {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Register(tt.job)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	s := New(logger.NewNopLogger())

	var runs atomic.Int32
	require.NoError(t, s.Register(Job{
		Name:   "count",
		Period: 5 * time.Millisecond,
		Run: func(context.Context) {
			runs.Add(1)
		},
	}))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, ierr.IsInvalidOperation(s.Start(context.Background())))

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, time.Millisecond)

	s.Stop()
	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())

	// stopping twice is a no-op
	s.Stop()
}

func TestSchedulerSurvivesPanickingJob(t *testing.T) {
	s := New(logger.NewNopLogger())

	var runs atomic.Int32
	require.NoError(t, s.Register(Job{
		Name:   "panics",
		Period: 5 * time.Millisecond,
		Run: func(context.Context) {
			runs.Add(1)
			panic("boom")
		},
	}))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, time.Millisecond)
	s.Stop()
}

func TestSchedulerStopsWithContext(t *testing.T) {
	s := New(logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 1)
	var returned atomic.Bool
	require.NoError(t, s.Register(Job{
		Name:   "wait",
		Period: time.Millisecond,
		Run: func(ctx context.Context) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			returned.Store(true)
		},
	}))

	require.NoError(t, s.Start(ctx))
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}

	cancel()
	s.Stop()
	assert.True(t, returned.Load())
}

// Package scheduler runs background jobs on a fixed period.
package scheduler

import (
	"context"
	"sync"
	"time"

	ierr "github.com/Ontinet-com/contract/internal/errors"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/sourcegraph/conc"
)

// A Job is run once per Period until the scheduler stops
type Job struct {
	Name   string
	Period time.Duration
	Run    func(ctx context.Context)
}

// Scheduler runs every registered job on its own ticker
type Scheduler struct {
	logger *logger.Logger

	mu      sync.Mutex
	jobs    []Job
	cancel  context.CancelFunc
	workers *conc.WaitGroup
}

func New(logger *logger.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a job. Jobs registered after Start are not run.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return ierr.NewError("job name and run function are required").
			WithHint("Scheduled jobs need a name and a function").
			Mark(ierr.ErrValidation)
	}
	if job.Period <= 0 {
		return ierr.NewErrorf("job %s has a non positive period", job.Name).
			WithHint("Scheduled jobs need a positive period").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

// Start launches one loop per job. The loops stop when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workers != nil {
		return ierr.NewError("scheduler already started").
			Mark(ierr.ErrInvalidOperation)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.workers = conc.NewWaitGroup()
	for _, job := range s.jobs {
		s.workers.Go(func() {
			s.loop(ctx, job)
		})
	}

	s.logger.Infow("scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop cancels the loops and waits for running jobs to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, workers := s.cancel, s.workers
	s.cancel, s.workers = nil, nil
	s.mu.Unlock()

	if workers == nil {
		return
	}
	cancel()
	workers.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run(ctx, job)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("scheduled job panicked",
				"job", job.Name,
				"panic", r,
			)
		}
	}()

	start := time.Now()
	s.logger.Debugw("running scheduled job", "job", job.Name)
	job.Run(ctx)
	s.logger.Debugw("scheduled job finished",
		"job", job.Name,
		"duration", time.Since(start).String(),
	)
}

package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/metrics"
)

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Locks    LockProvider
	Metrics  *metrics.CronJobMetrics
}

// Service executes registered cron jobs, each on its own cadence. A Redis
// lock per job keeps multiple worker instances from running the same job
// concurrently.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	locks    LockProvider
	metrics  *metrics.CronJobMetrics
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Locks == nil {
		return nil, fmt.Errorf("lock provider required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		locks:    params.Locks,
		metrics:  params.Metrics,
	}, nil
}

// Run starts one ticker loop per registered job and blocks until the context
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var wg sync.WaitGroup
	for _, job := range s.registry.Jobs() {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runLoop(ctx, job)
		}(job)
	}
	wg.Wait()

	s.logg.Info(ctx, "cron service context canceled")
	return ctx.Err()
}

func (s *Service) runLoop(ctx context.Context, job Job) {
	interval := job.Interval()
	if interval <= 0 {
		s.logg.Warn(s.logg.WithField(ctx, "job", job.Name()), "job has no interval; skipping")
		return
	}

	s.runCycle(ctx, job, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, job, interval)
		}
	}
}

func (s *Service) runCycle(ctx context.Context, job Job, interval time.Duration) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	jobCtx = s.logg.WithField(jobCtx, "event", "cron.job")

	lock, err := s.locks.ForJob(job.Name(), interval)
	if err != nil {
		s.logg.Error(jobCtx, "failed to build job lock", err)
		return
	}
	locked, err := lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(jobCtx, "lock acquire failed", err)
		return
	}
	if !locked {
		s.logg.Info(jobCtx, "another worker holds the lock; skipping this cycle")
		return
	}
	defer func() {
		if relErr := lock.Release(ctx); relErr != nil {
			s.logg.Error(jobCtx, "failed to release job lock", relErr)
		}
	}()

	s.logg.Info(jobCtx, "job start")
	start := time.Now()
	err = job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(job.Name())
		return
	}
	s.logg.Info(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name())
}

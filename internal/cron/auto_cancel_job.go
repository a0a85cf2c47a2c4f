package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/metrics"
)

const (
	autoCancelJobName  = "auto-cancel"
	autoCancelInterval = 5 * time.Minute
	// pendingOrderGrace is how long an unpaid order survives before the
	// sweeper cancels it.
	pendingOrderGrace = 75 * time.Minute
)

type pendingSweeper interface {
	CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AutoCancelJobParams configure the stale pending order sweeper.
type AutoCancelJobParams struct {
	Logger  *logger.Logger
	Orders  pendingSweeper
	Metrics *metrics.CronJobMetrics
}

// NewAutoCancelJob builds the cron job that cancels unpaid orders past the
// grace window.
func NewAutoCancelJob(params AutoCancelJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &autoCancelJob{
		logg:    params.Logger,
		orders:  params.Orders,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type autoCancelJob struct {
	logg    *logger.Logger
	orders  pendingSweeper
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *autoCancelJob) Name() string { return autoCancelJobName }

func (j *autoCancelJob) Interval() time.Duration { return autoCancelInterval }

// Run sweeps in a single statement. The status predicate in the UPDATE is the
// concurrency guard: an order paid between scan and write no longer matches
// and keeps its money state untouched.
func (j *autoCancelJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-pendingOrderGrace)
	cancelled, err := j.orders.CancelPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cancel stale pending orders: %w", err)
	}
	j.metrics.AddProcessed(j.Name(), int(cancelled))
	if cancelled > 0 {
		j.logg.Info(j.logg.WithField(ctx, "cancelled", cancelled), "stale pending orders cancelled")
	}
	return nil
}

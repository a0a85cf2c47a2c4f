package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/ledger"
	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/metrics"
	"github.com/guideway/guideway-backend/pkg/money"
)

const (
	autoSettleJobName  = "auto-settle"
	autoSettleInterval = time.Hour
	// settleGrace is how long after the end check-in an order waits before
	// settlement, leaving the dispute window open.
	settleGrace     = 24 * time.Hour
	settleBatchSize = 100
	// settleRunCeiling bounds one run instead of a wall-clock timeout so a
	// backlog drains across runs at a predictable per-run cost.
	settleRunCeiling = 10000
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AutoSettleJobParams configure the settlement job.
type AutoSettleJobParams struct {
	Logger  *logger.Logger
	DB      txRunner
	Orders  orders.Repository
	Ledger  ledger.Service
	Metrics *metrics.CronJobMetrics
}

// NewAutoSettleJob builds the cron job that completes ended orders and pays
// out guide income.
func NewAutoSettleJob(params AutoSettleJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &autoSettleJob{
		logg:    params.Logger,
		db:      params.DB,
		orders:  params.Orders,
		ledger:  params.Ledger,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type autoSettleJob struct {
	logg    *logger.Logger
	db      txRunner
	orders  orders.Repository
	ledger  ledger.Service
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *autoSettleJob) Name() string { return autoSettleJobName }

func (j *autoSettleJob) Interval() time.Duration { return autoSettleInterval }

// Run settles ended orders in batches. Each order gets its own transaction so
// one bad row never rolls back its batch; failed rows are logged, counted and
// retried on the next run. The combined row errors are returned so the run is
// reported as failed without losing the progress made.
func (j *autoSettleJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-settleGrace)
	settled := 0
	var errs []error

	for settled < settleRunCeiling {
		size := settleBatchSize
		if remaining := settleRunCeiling - settled; remaining < size {
			size = remaining
		}
		batch, err := j.orders.FindServiceEndedBefore(ctx, cutoff, size)
		if err != nil {
			return fmt.Errorf("query settleable orders: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		progressed := 0
		for _, order := range batch {
			if err := j.settle(ctx, order); err != nil {
				errs = append(errs, fmt.Errorf("settle order %s: %w", order.ID, err))
				orderCtx := j.logg.WithOrderID(ctx, order.ID.String())
				j.logg.Error(orderCtx, "order settlement failed", err)
				continue
			}
			progressed++
		}
		settled += progressed
		// Failing rows stay in the query window; without progress the next
		// fetch would return the same batch forever.
		if progressed == 0 {
			break
		}
		if len(batch) < size {
			break
		}
	}

	j.metrics.AddProcessed(j.Name(), settled)
	j.metrics.AddRowErrors(j.Name(), len(errs))
	if settled > 0 || len(errs) > 0 {
		runCtx := j.logg.WithFields(ctx, map[string]any{
			"settled": settled,
			"failed":  len(errs),
		})
		j.logg.Info(runCtx, "settlement run finished")
	}
	return multierr.Combine(errs...)
}

func (j *autoSettleJob) settle(ctx context.Context, order models.Order) error {
	if order.GuideID == nil {
		return fmt.Errorf("order %s ended service without an assigned guide", order.ID)
	}
	guideID := *order.GuideID

	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.orders.WithTx(tx)
		current, err := repo.Find(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		// A concurrent run or a refund may have moved the order already.
		if current.Status != enums.OrderStatusServiceEnded {
			return nil
		}

		payout := settlePayout(current)
		if err := repo.Update(ctx, current.ID, map[string]any{"status": enums.OrderStatusCompleted}); err != nil {
			return fmt.Errorf("complete order: %w", err)
		}
		if err := j.ledger.Credit(ctx, tx, guideID, current.ID, payout); err != nil {
			return fmt.Errorf("credit guide balance: %w", err)
		}
		return nil
	})
}

// settlePayout returns the accrued income, falling back to recomputing the
// share from the base amount for legacy rows that predate income accrual.
// The fallback cannot see overtime, which is exactly how those rows behaved
// before accrual existed.
func settlePayout(order *models.Order) money.Cents {
	if order.GuideIncomeCents == 0 && order.AmountCents > 0 {
		return money.GuideShare(order.AmountCents)
	}
	return order.GuideIncomeCents
}

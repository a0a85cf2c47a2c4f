package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/ledger"
	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

type stubSettleRepo struct {
	byID    map[uuid.UUID]*models.Order
	queue   []models.Order
	fetched bool
}

func (s *stubSettleRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubSettleRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubSettleRepo) Find(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.byID[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubSettleRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	order, ok := s.byID[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = v
	}
	return nil
}

func (s *stubSettleRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubSettleRepo) ListByGuide(ctx context.Context, guideID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubSettleRepo) CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	panic("not implemented")
}

func (s *stubSettleRepo) FindServiceEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	// One batch per run keeps the tests deterministic.
	if s.fetched {
		return nil, nil
	}
	s.fetched = true
	if len(s.queue) > limit {
		return s.queue[:limit], nil
	}
	return s.queue, nil
}

func (s *stubSettleRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	panic("not implemented")
}

type creditCall struct {
	guideID uuid.UUID
	orderID uuid.UUID
	amount  money.Cents
}

type stubLedger struct {
	calls []creditCall
	err   error
}

func (s *stubLedger) Credit(ctx context.Context, tx *gorm.DB, guideID, orderID uuid.UUID, amount money.Cents) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, creditCall{guideID: guideID, orderID: orderID, amount: amount})
	return nil
}

func (s *stubLedger) GetBalance(ctx context.Context, guideID uuid.UUID) (*models.GuideBalance, error) {
	panic("not implemented")
}

func (s *stubLedger) ListEntries(ctx context.Context, guideID uuid.UUID, params pagination.Params) (*ledger.EntryList, error) {
	panic("not implemented")
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func settleableOrder(income, amount money.Cents) *models.Order {
	guideID := uuid.New()
	ended := time.Now().UTC().Add(-48 * time.Hour)
	return &models.Order{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		GuideID:          &guideID,
		Status:           enums.OrderStatusServiceEnded,
		AmountCents:      amount,
		TotalAmountCents: amount,
		GuideIncomeCents: income,
		ActualEndTime:    &ended,
	}
}

func newSettleJob(t *testing.T, repo *stubSettleRepo, ledger *stubLedger) Job {
	t.Helper()
	job, err := NewAutoSettleJob(AutoSettleJobParams{
		Logger: testLogger(),
		DB:     stubTxRunner{},
		Orders: repo,
		Ledger: ledger,
	})
	if err != nil {
		t.Fatalf("job constructor failed: %v", err)
	}
	return job
}

func TestAutoSettleCompletesAndCredits(t *testing.T) {
	order := settleableOrder(9375, 12500)
	repo := &stubSettleRepo{
		byID:  map[uuid.UUID]*models.Order{order.ID: order},
		queue: []models.Order{*order},
	}
	ledger := &stubLedger{}
	job := newSettleJob(t, repo, ledger)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed got %s", order.Status)
	}
	if len(ledger.calls) != 1 {
		t.Fatalf("expected one credit got %d", len(ledger.calls))
	}
	call := ledger.calls[0]
	if call.amount != 9375 || call.guideID != *order.GuideID || call.orderID != order.ID {
		t.Fatalf("unexpected credit %+v", call)
	}
}

func TestAutoSettleLegacyFallback(t *testing.T) {
	order := settleableOrder(0, 10000)
	repo := &stubSettleRepo{
		byID:  map[uuid.UUID]*models.Order{order.ID: order},
		queue: []models.Order{*order},
	}
	ledger := &stubLedger{}
	job := newSettleJob(t, repo, ledger)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(ledger.calls) != 1 {
		t.Fatalf("expected one credit got %d", len(ledger.calls))
	}
	if ledger.calls[0].amount != 7500 {
		t.Fatalf("expected fallback payout 7500 got %d", ledger.calls[0].amount)
	}
}

func TestAutoSettleSkipsMovedOrder(t *testing.T) {
	order := settleableOrder(9375, 12500)
	queued := *order
	// Refunded between the batch scan and the per-row transaction.
	order.Status = enums.OrderStatusRefunded
	repo := &stubSettleRepo{
		byID:  map[uuid.UUID]*models.Order{order.ID: order},
		queue: []models.Order{queued},
	}
	ledger := &stubLedger{}
	job := newSettleJob(t, repo, ledger)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Status != enums.OrderStatusRefunded {
		t.Fatalf("refunded order must stay refunded, got %s", order.Status)
	}
	if len(ledger.calls) != 0 {
		t.Fatal("no credit expected for a moved order")
	}
}

func TestAutoSettleIsolatesRowFailures(t *testing.T) {
	good := settleableOrder(9375, 12500)
	bad := settleableOrder(7500, 10000)
	bad.GuideID = nil
	repo := &stubSettleRepo{
		byID:  map[uuid.UUID]*models.Order{good.ID: good, bad.ID: bad},
		queue: []models.Order{*bad, *good},
	}
	ledger := &stubLedger{}
	job := newSettleJob(t, repo, ledger)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected combined row errors")
	}
	if good.Status != enums.OrderStatusCompleted {
		t.Fatalf("good order should settle, got %s", good.Status)
	}
	if len(ledger.calls) != 1 {
		t.Fatalf("expected one credit got %d", len(ledger.calls))
	}
}

func TestAutoSettleLedgerFailureSkipsCredit(t *testing.T) {
	order := settleableOrder(9375, 12500)
	repo := &stubSettleRepo{
		byID:  map[uuid.UUID]*models.Order{order.ID: order},
		queue: []models.Order{*order},
	}
	ledger := &stubLedger{err: errors.New("db down")}
	job := newSettleJob(t, repo, ledger)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected combined row errors")
	}
	if len(ledger.calls) != 0 {
		t.Fatal("no credit should be recorded")
	}
}

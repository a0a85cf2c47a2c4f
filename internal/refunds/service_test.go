package refunds

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/internal/payments"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

type stubOrderRepo struct {
	order   *models.Order
	updates map[string]any
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) Find(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrderRepo) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	if v, ok := updates["status"].(enums.OrderStatus); ok {
		s.order.Status = v
	}
	if v, ok := updates["refund_amount_cents"].(money.Cents); ok {
		s.order.RefundAmountCents = &v
	}
	return nil
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) ListByGuide(ctx context.Context, guideID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) FindServiceEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	panic("not implemented")
}

type stubRefundRepo struct {
	payment *models.Payment
	records []*models.RefundRecord
}

func (s *stubRefundRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRefundRepo) CreateRefundRecord(ctx context.Context, record *models.RefundRecord) (*models.RefundRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *stubRefundRepo) FindSucceededOrderPayment(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if s.payment == nil || s.payment.OrderID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payment, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProvider struct {
	refundErr    error
	refundCalls  int
	refundAmount money.Cents
}

func (s *stubProvider) Charge(ctx context.Context, orderRef string, amount money.Cents, method enums.PaymentMethod) (payments.ChargeResult, error) {
	panic("not implemented")
}

func (s *stubProvider) Refund(ctx context.Context, orderRef string, amount money.Cents, originalTransactionID, reason string) (payments.RefundResult, error) {
	s.refundCalls++
	s.refundAmount = amount
	if s.refundErr != nil {
		return payments.RefundResult{}, s.refundErr
	}
	return payments.RefundResult{TransactionID: "rfd-" + orderRef}, nil
}

type fixture struct {
	svc        Service
	orderRepo  *stubOrderRepo
	repo       *stubRefundRepo
	provider   *stubProvider
	customerID uuid.UUID
	paidAt     time.Time
}

func newFixture(t *testing.T, status enums.OrderStatus) *fixture {
	t.Helper()

	customerID := uuid.New()
	orderID := uuid.New()
	paidAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	orderRepo := &stubOrderRepo{
		order: &models.Order{
			ID:          orderID,
			OrderNumber: "GW20260501TEST",
			CustomerID:  customerID,
			Status:      status,
			AmountCents: 10000,
		},
	}
	repo := &stubRefundRepo{
		payment: &models.Payment{
			ID:            uuid.New(),
			OrderID:       orderID,
			RelatedType:   enums.PaymentRelatedOrder,
			TransactionID: "txn-original",
			AmountCents:   10000,
			Status:        enums.PaymentStatusSucceeded,
			PaidAt:        paidAt,
		},
	}
	provider := &stubProvider{}
	svc, err := NewService(repo, orderRepo, stubTxRunner{}, provider)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return &fixture{
		svc:        svc,
		orderRepo:  orderRepo,
		repo:       repo,
		provider:   provider,
		customerID: customerID,
		paidAt:     paidAt,
	}
}

func (f *fixture) atTime(t time.Time) {
	f.svc.(*service).now = func() time.Time { return t }
}

func TestRefundInsideFreeWindow(t *testing.T) {
	f := newFixture(t, enums.OrderStatusPaid)
	f.atTime(f.paidAt.Add(30 * time.Minute))

	record, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, f.customerID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if record.AmountCents != 10000 {
		t.Fatalf("expected full refund 10000 got %d", record.AmountCents)
	}
	if f.orderRepo.order.Status != enums.OrderStatusRefunded {
		t.Fatalf("expected refunded got %s", f.orderRepo.order.Status)
	}
	if f.orderRepo.order.RefundAmountCents == nil || *f.orderRepo.order.RefundAmountCents != 10000 {
		t.Fatal("expected refund amount stored on order")
	}
	if f.provider.refundCalls != 1 || f.provider.refundAmount != 10000 {
		t.Fatalf("expected one provider refund of 10000, got %d of %d", f.provider.refundCalls, f.provider.refundAmount)
	}
}

func TestRefundAfterFreeWindowAppliesPenalty(t *testing.T) {
	f := newFixture(t, enums.OrderStatusWaitingService)
	f.atTime(f.paidAt.Add(2 * time.Hour))

	record, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, f.customerID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if record.AmountCents != 8000 {
		t.Fatalf("expected refund 8000 got %d", record.AmountCents)
	}
}

func TestRefundAmountNeverNegative(t *testing.T) {
	paidAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	got := RefundAmount(1500, paidAt, paidAt.Add(3*time.Hour))
	if got != 0 {
		t.Fatalf("expected 0 got %d", got)
	}
}

func TestRefundRejectsWrongCustomer(t *testing.T) {
	f := newFixture(t, enums.OrderStatusPaid)

	_, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestRefundRejectsWrongStatus(t *testing.T) {
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusInService,
		enums.OrderStatusCompleted,
		enums.OrderStatusRefunded,
	} {
		f := newFixture(t, status)
		_, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, f.customerID)
		if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("status %s: expected state conflict got %v", status, err)
		}
		if f.provider.refundCalls != 0 {
			t.Fatalf("status %s: no provider call expected", status)
		}
	}
}

func TestRefundMissingPaymentIsInternal(t *testing.T) {
	f := newFixture(t, enums.OrderStatusPaid)
	f.repo.payment = nil

	_, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, f.customerID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error got %v", err)
	}
}

func TestRefundProviderFailureLeavesOrderUntouched(t *testing.T) {
	f := newFixture(t, enums.OrderStatusPaid)
	f.provider.refundErr = pkgerrors.New(pkgerrors.CodeDependency, "gateway down")

	_, err := f.svc.RefundByUser(context.Background(), f.orderRepo.order.ID, f.customerID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}
	if f.orderRepo.order.Status != enums.OrderStatusPaid {
		t.Fatalf("order must stay paid, got %s", f.orderRepo.order.Status)
	}
	if len(f.repo.records) != 0 {
		t.Fatal("no refund record should exist after a failed provider call")
	}
}

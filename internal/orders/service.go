package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/payments"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Pay(ctx context.Context, input PayInput) (*models.Order, error)
	AssignGuide(ctx context.Context, input AssignGuideInput) error
	CancelByCustomer(ctx context.Context, orderID, customerID uuid.UUID) error
	Reopen(ctx context.Context, orderID uuid.UUID) error
	Get(ctx context.Context, orderID, actorID uuid.UUID, role enums.UserRole) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	ListByGuide(ctx context.Context, guideID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	provider payments.Provider
	now      func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, provider payments.Provider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		provider: provider,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order kind %q", input.Kind))
	}
	if input.StartTime.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time required")
	}
	if input.Kind == enums.OrderKindCustom && input.Requirements == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom orders require requirements")
	}

	amount, err := money.HourlyFee(input.DurationHours, input.HourlyRateCents)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking terms")
	}

	now := s.now().UTC()
	order := &models.Order{
		OrderNumber:        newOrderNumber(now),
		CustomerID:         input.CustomerID,
		GuideID:            input.GuideID,
		Kind:               input.Kind,
		Status:             enums.OrderStatusPending,
		AmountCents:        amount,
		TotalAmountCents:   amount,
		HourlyRateCents:    input.HourlyRateCents,
		DurationHours:      input.DurationHours,
		TotalDurationHours: input.DurationHours,
		StartTime:          input.StartTime.UTC(),
		EndTime:            input.StartTime.UTC().Add(time.Duration(input.DurationHours) * time.Hour),
		Requirements:       input.Requirements,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

// Pay captures the base fee and promotes the order to paid. The gateway is
// charged before the commit transaction opens; a charge that lands on an
// order someone else already transitioned surfaces as a state conflict and is
// reconciled manually, never auto-refunded here.
func (s *service) Pay(ctx context.Context, input PayInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.Method))
	}

	order, err := s.loadOrder(ctx, s.repo, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, ErrStaleStatus("pay", enums.OrderStatusPending, order.Status)
	}

	charge, err := s.provider.Charge(ctx, order.OrderNumber, order.AmountCents, input.Method)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "charge payment provider")
	}

	paidAt := s.now().UTC()
	income := money.GuideShare(order.AmountCents)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.loadOrder(ctx, repo, order.ID)
		if err != nil {
			return err
		}
		if current.Status != enums.OrderStatusPending {
			return ErrStaleStatus("pay", enums.OrderStatusPending, current.Status)
		}

		updates := map[string]any{
			"status":             enums.OrderStatusPaid,
			"guide_income_cents": income,
		}
		if err := repo.Update(ctx, current.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		payment := &models.Payment{
			OrderID:       current.ID,
			RelatedType:   enums.PaymentRelatedOrder,
			RelatedID:     current.ID,
			Method:        input.Method,
			TransactionID: charge.TransactionID,
			AmountCents:   current.AmountCents,
			Status:        enums.PaymentStatusSucceeded,
			PaidAt:        paidAt,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusPaid
	order.GuideIncomeCents = income
	return order, nil
}

func (s *service) AssignGuide(ctx context.Context, input AssignGuideInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.GuideID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "guide id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPaid {
			return ErrStaleStatus("assign guide", enums.OrderStatusPaid, order.Status)
		}

		updates := map[string]any{
			"status":   enums.OrderStatusWaitingService,
			"guide_id": input.GuideID,
		}
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
}

func (s *service) CancelByCustomer(ctx context.Context, orderID, customerID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
		}
		// Paid orders return money through the refund flow, not cancellation.
		if order.Status != enums.OrderStatusPending {
			return ErrStaleStatus("cancel", enums.OrderStatusPending, order.Status)
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
}

// Reopen moves a cancelled order back to pending. Role enforcement happens at
// the route layer; the service only guards the transition itself.
func (s *service) Reopen(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusCancelled {
			return ErrStaleStatus("reopen", enums.OrderStatusCancelled, order.Status)
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusPending}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, orderID, actorID uuid.UUID, role enums.UserRole) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(order, actorID, role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return list, nil
}

func (s *service) ListByGuide(ctx context.Context, guideID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	if guideID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByGuide(ctx, guideID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guide orders")
	}
	return list, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.Find(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func canView(order *models.Order, actorID uuid.UUID, role enums.UserRole) bool {
	if role == enums.UserRoleAdmin {
		return true
	}
	if order.CustomerID == actorID {
		return true
	}
	return order.GuideID != nil && *order.GuideID == actorID
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("GW%s%s", now.Format("20060102"), suffix)
}

package overtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/internal/payments"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput opens a pending overtime extension during service.
type CreateInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	ExtraHours int
}

// PayInput captures payment for a pending overtime record.
type PayInput struct {
	OvertimeID uuid.UUID
	CustomerID uuid.UUID
	Method     enums.PaymentMethod
}

// Service manages mid-service extensions. Paying an extension is purely
// additive on the order: totals, income, duration and the end time each grow
// by the extension's contribution, so extensions commute regardless of
// payment order.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.OvertimeRecord, error)
	Pay(ctx context.Context, input PayInput) (*models.OvertimeRecord, error)
	ListByOrder(ctx context.Context, orderID, actorID uuid.UUID, role enums.UserRole) ([]models.OvertimeRecord, error)
}

type service struct {
	repo      Repository
	orderRepo orders.Repository
	tx        txRunner
	provider  payments.Provider
	now       func() time.Time
}

// NewService builds an overtime service with the required dependencies.
func NewService(repo Repository, orderRepo orders.Repository, tx txRunner, provider payments.Provider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("overtime repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		tx:        tx,
		provider:  provider,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.OvertimeRecord, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ExtraHours <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra hours must be positive")
	}

	order, err := s.loadOrder(ctx, s.orderRepo, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	if order.Status != enums.OrderStatusInService {
		return nil, orders.ErrStaleStatus("create overtime", enums.OrderStatusInService, order.Status)
	}

	fee, err := money.HourlyFee(input.ExtraHours, order.HourlyRateCents)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid extension terms")
	}

	record := &models.OvertimeRecord{
		OrderID:    order.ID,
		ExtraHours: input.ExtraHours,
		FeeCents:   fee,
		Status:     enums.OvertimeStatusPending,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create overtime record")
	}
	return created, nil
}

func (s *service) Pay(ctx context.Context, input PayInput) (*models.OvertimeRecord, error) {
	if input.OvertimeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "overtime id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.Method))
	}

	record, err := s.loadRecord(ctx, s.repo, input.OvertimeID)
	if err != nil {
		return nil, err
	}
	order, err := s.loadOrder(ctx, s.orderRepo, record.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	if record.Status != enums.OvertimeStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "overtime record already paid")
	}

	charge, err := s.provider.Charge(ctx, order.OrderNumber, record.FeeCents, input.Method)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "charge payment provider")
	}

	paidAt := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.loadRecord(ctx, repo, record.ID)
		if err != nil {
			return err
		}
		// The pending re-check is the idempotency guard: a concurrent second
		// pay observes the paid row and stops with no effects.
		if current.Status != enums.OvertimeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "overtime record already paid")
		}

		orderRepo := s.orderRepo.WithTx(tx)
		currentOrder, err := s.loadOrder(ctx, orderRepo, current.OrderID)
		if err != nil {
			return err
		}

		if err := repo.Update(ctx, current.ID, map[string]any{"status": enums.OvertimeStatusPaid}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overtime record")
		}

		endTime := currentOrder.EndTime
		if paidAt.After(endTime) {
			endTime = paidAt
		}
		endTime = endTime.Add(time.Duration(current.ExtraHours) * time.Hour)

		updates := map[string]any{
			"total_amount_cents":   currentOrder.TotalAmountCents + current.FeeCents,
			"guide_income_cents":   currentOrder.GuideIncomeCents + money.GuideShare(current.FeeCents),
			"total_duration_hours": currentOrder.TotalDurationHours + current.ExtraHours,
			"end_time":             endTime,
		}
		if err := orderRepo.Update(ctx, currentOrder.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}

		payment := &models.Payment{
			OrderID:       currentOrder.ID,
			RelatedType:   enums.PaymentRelatedOvertime,
			RelatedID:     current.ID,
			Method:        input.Method,
			TransactionID: charge.TransactionID,
			AmountCents:   current.FeeCents,
			Status:        enums.PaymentStatusSucceeded,
			PaidAt:        paidAt,
		}
		if err := orderRepo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	record.Status = enums.OvertimeStatusPaid
	return record, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID, actorID uuid.UUID, role enums.UserRole) ([]models.OvertimeRecord, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.loadOrder(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	allowed := role == enums.UserRoleAdmin ||
		order.CustomerID == actorID ||
		(order.GuideID != nil && *order.GuideID == actorID)
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	records, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overtime records")
	}
	return records, nil
}

func (s *service) loadRecord(ctx context.Context, repo Repository, recordID uuid.UUID) (*models.OvertimeRecord, error) {
	record, err := repo.Find(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "overtime record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load overtime record")
	}
	return record, nil
}

func (s *service) loadOrder(ctx context.Context, repo orders.Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.Find(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

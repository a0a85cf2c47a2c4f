package refunds

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

const (
	// FreeWindow is how long after payment a cancellation refunds in full.
	FreeWindow = time.Hour
	// PenaltyCents is deducted from refunds requested after the free window.
	PenaltyCents money.Cents = 2000

	refundReasonUser = "customer requested"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes customer-initiated refunds on paid orders that have not
// started service.
type Service interface {
	RefundByUser(ctx context.Context, orderID, customerID uuid.UUID) (*models.RefundRecord, error)
}

type service struct {
	repo      Repository
	orderRepo orders.Repository
	tx        txRunner
	provider  payments.Provider
	now       func() time.Time
}

// NewService builds a refund service with the required dependencies.
func NewService(repo Repository, orderRepo orders.Repository, tx txRunner, provider payments.Provider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("refunds repository required")
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

func (s *service) RefundByUser(ctx context.Context, orderID, customerID uuid.UUID) (*models.RefundRecord, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.loadOrder(ctx, s.orderRepo, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}
	if !refundable(order.Status) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("refund requires status %s or %s, order is %s",
				enums.OrderStatusPaid, enums.OrderStatusWaitingService, order.Status),
		)
	}

	payment, err := s.repo.FindSucceededOrderPayment(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A paid order without its captured payment row is corrupt data,
			// not a user error.
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "order payment record missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order payment")
	}

	amount := RefundAmount(payment.AmountCents, payment.PaidAt, s.now().UTC())

	refund, err := s.provider.Refund(ctx, order.OrderNumber, amount, payment.TransactionID, refundReasonUser)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund payment provider")
	}

	record := &models.RefundRecord{
		OrderID:       order.ID,
		AmountCents:   amount,
		Reason:        refundReasonUser,
		Operator:      customerID.String(),
		TransactionID: refund.TransactionID,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		current, err := s.loadOrder(ctx, orderRepo, order.ID)
		if err != nil {
			return err
		}
		if !refundable(current.Status) {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s, refund already resolved elsewhere", current.Status),
			)
		}

		updates := map[string]any{
			"status":              enums.OrderStatusRefunded,
			"refund_amount_cents": amount,
		}
		if err := orderRepo.Update(ctx, current.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if _, err := s.repo.WithTx(tx).CreateRefundRecord(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record refund")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RefundAmount applies the cancellation policy: full refund inside the free
// window, otherwise the penalty comes off the top, floored at zero.
func RefundAmount(paid money.Cents, paidAt, now time.Time) money.Cents {
	if now.Sub(paidAt) <= FreeWindow {
		return paid
	}
	return money.ClampNonNegative(paid - PenaltyCents)
}

func refundable(status enums.OrderStatus) bool {
	return status == enums.OrderStatusPaid || status == enums.OrderStatusWaitingService
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

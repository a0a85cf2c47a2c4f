package refunds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
)

// Repository persists refund audit rows and reads original payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRefundRecord(ctx context.Context, record *models.RefundRecord) (*models.RefundRecord, error)
	FindSucceededOrderPayment(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a refunds repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRefundRecord(ctx context.Context, record *models.RefundRecord) (*models.RefundRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindSucceededOrderPayment(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND related_type = ? AND status = ?",
			orderID, enums.PaymentRelatedOrder, enums.PaymentStatusSucceeded).
		Order("paid_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

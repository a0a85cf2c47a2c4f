package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

// Repository defines persistence operations for the order aggregate and its
// payment rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Find(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	ListByGuide(ctx context.Context, guideID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindServiceEndedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

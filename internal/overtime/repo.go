package overtime

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
)

// Repository persists overtime extension records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.OvertimeRecord) (*models.OvertimeRecord, error)
	Find(ctx context.Context, recordID uuid.UUID) (*models.OvertimeRecord, error)
	Update(ctx context.Context, recordID uuid.UUID, updates map[string]any) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OvertimeRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an overtime repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.OvertimeRecord) (*models.OvertimeRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) Find(ctx context.Context, recordID uuid.UUID) (*models.OvertimeRecord, error) {
	var record models.OvertimeRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", recordID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Update(ctx context.Context, recordID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.OvertimeRecord{}).
		Where("id = ?", recordID).
		Updates(updates).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OvertimeRecord, error) {
	var records []models.OvertimeRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

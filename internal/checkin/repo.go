package checkin

import (
	"context"

	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
)

// Repository persists append-only check-in records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRecord(ctx context.Context, record *models.CheckInRecord) (*models.CheckInRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a check-in repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRecord(ctx context.Context, record *models.CheckInRecord) (*models.CheckInRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

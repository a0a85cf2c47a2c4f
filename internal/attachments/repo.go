package attachments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
)

// Repository is the read surface over uploaded attachments. The lifecycle
// engine only verifies existence and usage tags; upload and storage belong to
// the media collaborator.
type Repository interface {
	Find(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an attachments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.WithContext(ctx).
		Where("id = ?", attachmentID).
		First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

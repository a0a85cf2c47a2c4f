package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
)

// Attachment is the read surface of the upload collaborator. The engine only
// looks up rows to verify the usage tag; storage and upload live elsewhere.
type Attachment struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID             `gorm:"column:owner_id;type:uuid;not null;index"`
	Usage     enums.AttachmentUsage `gorm:"column:usage;type:attachment_usage;not null"`
	URL       string                `gorm:"column:url;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

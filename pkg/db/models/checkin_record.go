package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
)

// CheckInRecord is append-only proof that the assigned guide started or ended
// service. Rows are never updated or deleted.
type CheckInRecord struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	GuideID      uuid.UUID         `gorm:"column:guide_id;type:uuid;not null"`
	Type         enums.CheckInType `gorm:"column:type;type:checkin_type;not null"`
	AttachmentID uuid.UUID         `gorm:"column:attachment_id;type:uuid;not null"`
	Lat          float64           `gorm:"column:lat;not null"`
	Lng          float64           `gorm:"column:lng;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}

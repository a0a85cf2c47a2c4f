package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
)

// OvertimeRecord is one mid-service extension request. It is created pending
// and flips to paid exactly once; paid rows are immutable.
type OvertimeRecord struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ExtraHours int                  `gorm:"column:extra_hours;not null"`
	FeeCents   money.Cents          `gorm:"column:fee_cents;not null"`
	Status     enums.OvertimeStatus `gorm:"column:status;type:overtime_status;not null;default:'pending'"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

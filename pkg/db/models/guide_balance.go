package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/money"
)

// GuideBalance holds a guide's available funds. The settlement job owns the
// credit path exclusively and mutates the row only through a DB-level atomic
// increment, never a read-modify-write in application memory.
type GuideBalance struct {
	GuideID        uuid.UUID   `gorm:"column:guide_id;type:uuid;primaryKey"`
	AvailableCents money.Cents `gorm:"column:available_cents;not null;default:0"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

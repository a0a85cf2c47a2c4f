package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
)

// LedgerEntry records an immutable balance movement for a guide, tied to the
// order that produced it.
type LedgerEntry struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GuideID     uuid.UUID             `gorm:"column:guide_id;type:uuid;not null;index"`
	OrderID     uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	Type        enums.LedgerEntryType `gorm:"column:type;type:ledger_entry_type;not null"`
	AmountCents money.Cents           `gorm:"column:amount_cents;not null"`
	Metadata    json.RawMessage       `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/money"
)

// RefundOperatorSystem marks refunds executed by scheduled jobs rather than a
// user action.
const RefundOperatorSystem = "system"

// RefundRecord is the append-only audit trail for executed refunds. A second
// refund attempt must observe the order already terminal and reject.
type RefundRecord struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID   `gorm:"column:order_id;type:uuid;not null;index"`
	AmountCents   money.Cents `gorm:"column:amount_cents;not null"`
	Reason        string      `gorm:"column:reason;not null"`
	Operator      string      `gorm:"column:operator;not null"`
	TransactionID string      `gorm:"column:transaction_id;not null"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
}

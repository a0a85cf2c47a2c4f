package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
)

// Payment is the append-only ledger of captured money movements. A refund
// never mutates the original row; it produces a RefundRecord instead.
type Payment struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID                `gorm:"column:order_id;type:uuid;not null;index"`
	RelatedType   enums.PaymentRelatedType `gorm:"column:related_type;type:payment_related_type;not null"`
	RelatedID     uuid.UUID                `gorm:"column:related_id;type:uuid;not null"`
	Method        enums.PaymentMethod      `gorm:"column:method;type:payment_method;not null"`
	TransactionID string                   `gorm:"column:transaction_id;not null"`
	AmountCents   money.Cents              `gorm:"column:amount_cents;not null"`
	Status        enums.PaymentStatus      `gorm:"column:status;type:payment_status;not null"`
	PaidAt        time.Time                `gorm:"column:paid_at;not null"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
}

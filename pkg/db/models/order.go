package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/types"
)

// Order is the canonical booking aggregate. Rows are never deleted; terminal
// lifecycle states are completed and refunded.
//
// TotalAmountCents and TotalDurationHours start equal to the base values and
// grow only through paid overtime. GuideIncomeCents accrues per captured
// payment so rounding never drifts across extensions.
type Order struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        string                  `gorm:"column:order_number;not null;unique"`
	CustomerID         uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index"`
	GuideID            *uuid.UUID              `gorm:"column:guide_id;type:uuid;index"`
	Kind               enums.OrderKind         `gorm:"column:kind;type:order_kind;not null;default:'standard'"`
	Status             enums.OrderStatus       `gorm:"column:status;type:order_status;not null;default:'pending'"`
	AmountCents        money.Cents             `gorm:"column:amount_cents;not null"`
	TotalAmountCents   money.Cents             `gorm:"column:total_amount_cents;not null"`
	GuideIncomeCents   money.Cents             `gorm:"column:guide_income_cents;not null;default:0"`
	HourlyRateCents    money.Cents             `gorm:"column:hourly_rate_cents;not null"`
	DurationHours      int                     `gorm:"column:duration_hours;not null"`
	TotalDurationHours int                     `gorm:"column:total_duration_hours;not null"`
	StartTime          time.Time               `gorm:"column:start_time;not null"`
	EndTime            time.Time               `gorm:"column:end_time;not null"`
	ActualEndTime      *time.Time              `gorm:"column:actual_end_time"`
	RefundAmountCents  *money.Cents            `gorm:"column:refund_amount_cents"`
	Requirements       *types.OrderRequirement `gorm:"column:requirements;type:jsonb;serializer:json"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

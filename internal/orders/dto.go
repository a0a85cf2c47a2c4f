package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/types"
)

// Filters describe the inputs supported by the order list queries.
type Filters struct {
	Status *enums.OrderStatus
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// CreateInput captures everything needed to open a pending order. The hourly
// rate is a snapshot taken at booking time; later rate changes never touch
// existing orders.
type CreateInput struct {
	CustomerID      uuid.UUID
	Kind            enums.OrderKind
	HourlyRateCents money.Cents
	DurationHours   int
	StartTime       time.Time
	GuideID         *uuid.UUID
	Requirements    *types.OrderRequirement
}

// PayInput captures the checkout request for a pending order.
type PayInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Method     enums.PaymentMethod
}

// AssignGuideInput binds a guide to a paid order.
type AssignGuideInput struct {
	OrderID uuid.UUID
	GuideID uuid.UUID
}

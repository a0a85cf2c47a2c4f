package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/api/middleware"
	"github.com/guideway/guideway-backend/api/responses"
	refundsvc "github.com/guideway/guideway-backend/internal/refunds"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/money"
)

type refundResponse struct {
	ID            uuid.UUID   `json:"id"`
	OrderID       uuid.UUID   `json:"order_id"`
	AmountCents   money.Cents `json:"amount_cents"`
	Reason        string      `json:"reason"`
	TransactionID string      `json:"transaction_id"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderRefund refunds a paid order back to the customer, netting the late
// cancellation penalty when outside the free window.
func OrderRefund(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RefundByUser(r.Context(), orderID, middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refundResponse{
			ID:            record.ID,
			OrderID:       record.OrderID,
			AmountCents:   record.AmountCents,
			Reason:        record.Reason,
			TransactionID: record.TransactionID,
			CreatedAt:     record.CreatedAt,
		})
	}
}

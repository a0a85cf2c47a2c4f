package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/api/middleware"
	"github.com/guideway/guideway-backend/api/responses"
	"github.com/guideway/guideway-backend/api/validators"
	overtimesvc "github.com/guideway/guideway-backend/internal/overtime"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/money"
)

type createOvertimeRequest struct {
	ExtraHours int `json:"extra_hours" validate:"required,min=1"`
}

type payOvertimeRequest struct {
	Method string `json:"method" validate:"required,oneof=wallet card"`
}

type overtimeResponse struct {
	ID         uuid.UUID            `json:"id"`
	OrderID    uuid.UUID            `json:"order_id"`
	ExtraHours int                  `json:"extra_hours"`
	FeeCents   money.Cents          `json:"fee_cents"`
	Status     enums.OvertimeStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

func newOvertimeResponse(record *models.OvertimeRecord) overtimeResponse {
	return overtimeResponse{
		ID:         record.ID,
		OrderID:    record.OrderID,
		ExtraHours: record.ExtraHours,
		FeeCents:   record.FeeCents,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
	}
}

func overtimeIDFromURL(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "overtimeID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid overtime id")
	}
	return id, nil
}

// OvertimeCreate quotes extra hours against an in-service order.
func OvertimeCreate(svc overtimesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOvertimeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), overtimesvc.CreateInput{
			OrderID:    orderID,
			CustomerID: middleware.UserIDFromContext(r.Context()),
			ExtraHours: payload.ExtraHours,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOvertimeResponse(record))
	}
}

// OvertimePay captures the overtime fee and folds it into the order totals.
func OvertimePay(svc overtimesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overtimeID, err := overtimeIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload payOvertimeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		record, err := svc.Pay(r.Context(), overtimesvc.PayInput{
			OvertimeID: overtimeID,
			CustomerID: middleware.UserIDFromContext(r.Context()),
			Method:     method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOvertimeResponse(record))
	}
}

// OvertimeListByOrder returns the overtime history for an order the actor can
// see.
func OvertimeListByOrder(svc overtimesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListByOrder(r.Context(), orderID, middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]overtimeResponse, len(records))
		for i := range records {
			out[i] = newOvertimeResponse(&records[i])
		}
		responses.WriteSuccess(w, map[string]any{"overtime": out})
	}
}

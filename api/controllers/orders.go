package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/api/middleware"
	"github.com/guideway/guideway-backend/api/responses"
	"github.com/guideway/guideway-backend/api/validators"
	ordersvc "github.com/guideway/guideway-backend/internal/orders"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
	"github.com/guideway/guideway-backend/pkg/types"
)

type createOrderRequest struct {
	Kind            string                  `json:"kind" validate:"required,oneof=standard custom"`
	HourlyRateCents int64                   `json:"hourly_rate_cents" validate:"required,min=1"`
	DurationHours   int                     `json:"duration_hours" validate:"required,min=1"`
	StartTime       time.Time               `json:"start_time" validate:"required"`
	GuideID         *uuid.UUID              `json:"guide_id"`
	Requirements    *types.OrderRequirement `json:"requirements"`
}

type payOrderRequest struct {
	Method string `json:"method" validate:"required,oneof=wallet card"`
}

type assignGuideRequest struct {
	GuideID uuid.UUID `json:"guide_id" validate:"required"`
}

type orderResponse struct {
	ID                 uuid.UUID               `json:"id"`
	OrderNumber        string                  `json:"order_number"`
	CustomerID         uuid.UUID               `json:"customer_id"`
	GuideID            *uuid.UUID              `json:"guide_id,omitempty"`
	Kind               enums.OrderKind         `json:"kind"`
	Status             enums.OrderStatus       `json:"status"`
	AmountCents        money.Cents             `json:"amount_cents"`
	TotalAmountCents   money.Cents             `json:"total_amount_cents"`
	GuideIncomeCents   money.Cents             `json:"guide_income_cents"`
	HourlyRateCents    money.Cents             `json:"hourly_rate_cents"`
	DurationHours      int                     `json:"duration_hours"`
	TotalDurationHours int                     `json:"total_duration_hours"`
	StartTime          time.Time               `json:"start_time"`
	EndTime            time.Time               `json:"end_time"`
	ActualEndTime      *time.Time              `json:"actual_end_time,omitempty"`
	RefundAmountCents  *money.Cents            `json:"refund_amount_cents,omitempty"`
	Requirements       *types.OrderRequirement `json:"requirements,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		CustomerID:         order.CustomerID,
		GuideID:            order.GuideID,
		Kind:               order.Kind,
		Status:             order.Status,
		AmountCents:        order.AmountCents,
		TotalAmountCents:   order.TotalAmountCents,
		GuideIncomeCents:   order.GuideIncomeCents,
		HourlyRateCents:    order.HourlyRateCents,
		DurationHours:      order.DurationHours,
		TotalDurationHours: order.TotalDurationHours,
		StartTime:          order.StartTime,
		EndTime:            order.EndTime,
		ActualEndTime:      order.ActualEndTime,
		RefundAmountCents:  order.RefundAmountCents,
		Requirements:       order.Requirements,
		CreatedAt:          order.CreatedAt,
	}
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

func newOrderListResponse(list *ordersvc.OrderList) orderListResponse {
	out := orderListResponse{
		Orders:     make([]orderResponse, len(list.Orders)),
		NextCursor: list.NextCursor,
	}
	for i := range list.Orders {
		out.Orders[i] = newOrderResponse(&list.Orders[i])
	}
	return out
}

func orderIDFromURL(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

// OrderCreate opens a pending order for the authenticated customer.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseOrderKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order kind"))
			return
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateInput{
			CustomerID:      middleware.UserIDFromContext(r.Context()),
			Kind:            kind,
			HourlyRateCents: money.Cents(payload.HourlyRateCents),
			DurationHours:   payload.DurationHours,
			StartTime:       payload.StartTime,
			GuideID:         payload.GuideID,
			Requirements:    payload.Requirements,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// OrderPay captures the base fee for a pending order.
func OrderPay(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload payOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.Pay(r.Context(), ordersvc.PayInput{
			OrderID:    orderID,
			CustomerID: middleware.UserIDFromContext(r.Context()),
			Method:     method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCancel cancels an unpaid order for its customer.
func OrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CancelByCustomer(r.Context(), orderID, middleware.UserIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.OrderStatusCancelled)})
	}
}

// OrderAssign binds a guide to a paid order. Admin only.
func OrderAssign(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignGuideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignGuide(r.Context(), ordersvc.AssignGuideInput{
			OrderID: orderID,
			GuideID: payload.GuideID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.OrderStatusWaitingService)})
	}
}

// OrderReopen moves a cancelled order back to pending. Admin only.
func OrderReopen(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Reopen(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.OrderStatusPending)})
	}
}

// OrderGet returns one order visible to the actor.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID, middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrdersList returns the actor's orders: bookings for customers, assignments
// for guides.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		var filters ordersvc.Filters
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		actorID := middleware.UserIDFromContext(r.Context())
		var list *ordersvc.OrderList
		if middleware.RoleFromContext(r.Context()) == enums.UserRoleGuide {
			list, err = svc.ListByGuide(r.Context(), actorID, params, filters)
		} else {
			list, err = svc.ListByCustomer(r.Context(), actorID, params, filters)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/api/middleware"
	"github.com/guideway/guideway-backend/api/responses"
	"github.com/guideway/guideway-backend/api/validators"
	checkinsvc "github.com/guideway/guideway-backend/internal/checkin"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/logger"
)

type checkInRequest struct {
	Type         string    `json:"type" validate:"required,oneof=start end"`
	AttachmentID uuid.UUID `json:"attachment_id" validate:"required"`
	Lat          float64   `json:"lat" validate:"min=-90,max=90"`
	Lng          float64   `json:"lng" validate:"min=-180,max=180"`
}

type checkInResponse struct {
	ID           uuid.UUID         `json:"id"`
	OrderID      uuid.UUID         `json:"order_id"`
	GuideID      uuid.UUID         `json:"guide_id"`
	Type         enums.CheckInType `json:"type"`
	AttachmentID uuid.UUID         `json:"attachment_id"`
	Lat          float64           `json:"lat"`
	Lng          float64           `json:"lng"`
	CreatedAt    time.Time         `json:"created_at"`
}

func newCheckInResponse(record *models.CheckInRecord) checkInResponse {
	return checkInResponse{
		ID:           record.ID,
		OrderID:      record.OrderID,
		GuideID:      record.GuideID,
		Type:         record.Type,
		AttachmentID: record.AttachmentID,
		Lat:          record.Lat,
		Lng:          record.Lng,
		CreatedAt:    record.CreatedAt,
	}
}

// OrderCheckIn records service-start or service-end proof from the assigned
// guide and moves the order accordingly.
func OrderCheckIn(svc checkinsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		checkInType, err := enums.ParseCheckInType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid check-in type"))
			return
		}

		record, err := svc.CheckIn(r.Context(), checkinsvc.Input{
			OrderID:      orderID,
			GuideID:      middleware.UserIDFromContext(r.Context()),
			Type:         checkInType,
			AttachmentID: payload.AttachmentID,
			Lat:          payload.Lat,
			Lng:          payload.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckInResponse(record))
	}
}

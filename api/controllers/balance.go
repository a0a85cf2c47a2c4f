package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/guideway/guideway-backend/api/middleware"
	"github.com/guideway/guideway-backend/api/responses"
	"github.com/guideway/guideway-backend/api/validators"
	ledgersvc "github.com/guideway/guideway-backend/internal/ledger"
	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/logger"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

type balanceResponse struct {
	GuideID        uuid.UUID   `json:"guide_id"`
	AvailableCents money.Cents `json:"available_cents"`
}

type ledgerEntryResponse struct {
	ID          uuid.UUID             `json:"id"`
	OrderID     uuid.UUID             `json:"order_id"`
	Type        enums.LedgerEntryType `json:"type"`
	AmountCents money.Cents           `json:"amount_cents"`
	CreatedAt   time.Time             `json:"created_at"`
}

func newLedgerEntryResponse(entry *models.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:          entry.ID,
		OrderID:     entry.OrderID,
		Type:        entry.Type,
		AmountCents: entry.AmountCents,
		CreatedAt:   entry.CreatedAt,
	}
}

// BalanceGet returns the authenticated guide's available balance.
func BalanceGet(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := svc.GetBalance(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, balanceResponse{
			GuideID:        balance.GuideID,
			AvailableCents: balance.AvailableCents,
		})
	}
}

// BalanceEntries pages through the guide's ledger history, newest first.
func BalanceEntries(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListEntries(r.Context(), middleware.UserIDFromContext(r.Context()), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries := make([]ledgerEntryResponse, len(list.Entries))
		for i := range list.Entries {
			entries[i] = newLedgerEntryResponse(&list.Entries[i])
		}
		responses.WriteSuccess(w, map[string]any{
			"entries":     entries,
			"next_cursor": list.NextCursor,
		})
	}
}

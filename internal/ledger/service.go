package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

// Service exposes guide balance credit and reads. Credit runs on the caller's
// transaction so the balance movement commits or rolls back together with the
// order transition that earned it.
type Service interface {
	Credit(ctx context.Context, tx *gorm.DB, guideID, orderID uuid.UUID, amount money.Cents) error
	GetBalance(ctx context.Context, guideID uuid.UUID) (*models.GuideBalance, error)
	ListEntries(ctx context.Context, guideID uuid.UUID, params pagination.Params) (*EntryList, error)
}

type service struct {
	repo Repository
}

// NewService builds a ledger service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

type creditMetadata struct {
	OrderID uuid.UUID `json:"order_id"`
	Source  string    `json:"source"`
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, guideID, orderID uuid.UUID, amount money.Cents) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "credit requires a transaction")
	}
	if guideID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "guide id required")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount must not be negative")
	}

	repo := s.repo.WithTx(tx)
	if err := repo.AddToBalance(ctx, guideID, amount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment balance")
	}

	metadata, err := json.Marshal(creditMetadata{OrderID: orderID, Source: "settlement"})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ledger metadata")
	}
	entry := &models.LedgerEntry{
		GuideID:     guideID,
		OrderID:     orderID,
		Type:        enums.LedgerEntryTypeIncome,
		AmountCents: amount,
		Metadata:    metadata,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ledger entry")
	}
	return nil
}

func (s *service) GetBalance(ctx context.Context, guideID uuid.UUID) (*models.GuideBalance, error) {
	if guideID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	balance, err := s.repo.FindBalance(ctx, guideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No settlements yet reads as a zero balance, not an error.
			return &models.GuideBalance{GuideID: guideID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
	}
	return balance, nil
}

func (s *service) ListEntries(ctx context.Context, guideID uuid.UUID, params pagination.Params) (*EntryList, error) {
	if guideID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListEntries(ctx, guideID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}
	return list, nil
}

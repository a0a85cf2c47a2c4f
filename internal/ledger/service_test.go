package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	pkgerrors "github.com/guideway/guideway-backend/pkg/errors"
)

func TestCreditWritesBalanceAndEntry(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	guideID := uuid.New()
	orderID := uuid.New()
	require.NoError(t, svc.Credit(context.Background(), db, guideID, orderID, 9375))

	balance, err := svc.GetBalance(context.Background(), guideID)
	require.NoError(t, err)
	assert.EqualValues(t, 9375, balance.AvailableCents)

	var entries []models.LedgerEntry
	require.NoError(t, db.Where("guide_id = ?", guideID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.LedgerEntryTypeIncome, entries[0].Type)
	assert.Equal(t, orderID, entries[0].OrderID)

	var meta creditMetadata
	require.NoError(t, json.Unmarshal(entries[0].Metadata, &meta))
	assert.Equal(t, orderID, meta.OrderID)
	assert.Equal(t, "settlement", meta.Source)
}

func TestCreditRequiresTransaction(t *testing.T) {
	svc, err := NewService(NewRepository(setupLedgerTestDB(t)))
	require.NoError(t, err)

	err = svc.Credit(context.Background(), (*gorm.DB)(nil), uuid.New(), uuid.New(), 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestCreditRejectsNegativeAmount(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	err = svc.Credit(context.Background(), db, uuid.New(), uuid.New(), -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetBalanceDefaultsToZero(t *testing.T) {
	svc, err := NewService(NewRepository(setupLedgerTestDB(t)))
	require.NoError(t, err)

	guideID := uuid.New()
	balance, err := svc.GetBalance(context.Background(), guideID)
	require.NoError(t, err)
	assert.Equal(t, guideID, balance.GuideID)
	assert.EqualValues(t, 0, balance.AvailableCents)
}

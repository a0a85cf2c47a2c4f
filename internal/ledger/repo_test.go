package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	balances := `
CREATE TABLE IF NOT EXISTS guide_balances (
  guide_id TEXT PRIMARY KEY,
  available_cents INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS ledger_entries (
  id TEXT PRIMARY KEY,
  guide_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  metadata TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(balances).Error)
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func TestAddToBalanceUpsertsAndAccumulates(t *testing.T) {
	repo := NewRepository(setupLedgerTestDB(t))
	guideID := uuid.New()

	require.NoError(t, repo.AddToBalance(context.Background(), guideID, 7500))
	balance, err := repo.FindBalance(context.Background(), guideID)
	require.NoError(t, err)
	assert.EqualValues(t, 7500, balance.AvailableCents)

	require.NoError(t, repo.AddToBalance(context.Background(), guideID, 1875))
	balance, err = repo.FindBalance(context.Background(), guideID)
	require.NoError(t, err)
	assert.EqualValues(t, 9375, balance.AvailableCents)
}

func TestFindBalanceMissing(t *testing.T) {
	repo := NewRepository(setupLedgerTestDB(t))

	_, err := repo.FindBalance(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListEntriesPaginates(t *testing.T) {
	repo := NewRepository(setupLedgerTestDB(t))
	guideID := uuid.New()

	for i := 0; i < 3; i++ {
		entry := &models.LedgerEntry{
			ID:          uuid.New(),
			GuideID:     guideID,
			OrderID:     uuid.New(),
			Type:        enums.LedgerEntryTypeIncome,
			AmountCents: 1000,
			CreatedAt:   time.Date(2026, 5, 1, 10+i, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.CreateEntry(context.Background(), entry))
	}

	first, err := repo.ListEntries(context.Background(), guideID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Entries, 2)
	require.NotNil(t, first.NextCursor)
	// Newest first.
	assert.True(t, first.Entries[0].CreatedAt.After(first.Entries[1].CreatedAt))

	second, err := repo.ListEntries(context.Background(), guideID, pagination.Params{Limit: 2, Cursor: *first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Entries, 1)
	assert.Nil(t, second.NextCursor)
}

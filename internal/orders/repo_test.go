package orders

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  guide_id TEXT,
  kind TEXT NOT NULL DEFAULT 'standard',
  status TEXT NOT NULL DEFAULT 'pending',
  amount_cents INTEGER NOT NULL,
  total_amount_cents INTEGER NOT NULL,
  guide_income_cents INTEGER NOT NULL DEFAULT 0,
  hourly_rate_cents INTEGER NOT NULL,
  duration_hours INTEGER NOT NULL,
  total_duration_hours INTEGER NOT NULL,
  start_time DATETIME NOT NULL,
  end_time DATETIME NOT NULL,
  actual_end_time DATETIME,
  refund_amount_cents INTEGER,
  requirements TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  related_type TEXT NOT NULL,
  related_id TEXT NOT NULL,
  method TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  status TEXT NOT NULL,
  paid_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, mutate func(*models.Order)) *models.Order {
	t.Helper()

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:                 uuid.New(),
		OrderNumber:        "GW" + uuid.NewString(),
		CustomerID:         uuid.New(),
		Kind:               enums.OrderKindStandard,
		Status:             enums.OrderStatusPending,
		AmountCents:        10000,
		TotalAmountCents:   10000,
		HourlyRateCents:    2500,
		DurationHours:      4,
		TotalDurationHours: 4,
		StartTime:          start,
		EndTime:            start.Add(4 * time.Hour),
	}
	if mutate != nil {
		mutate(order)
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	order := seedOrder(t, repo, nil)

	found, err := repo.Find(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.EqualValues(t, 10000, found.AmountCents)

	_, err = repo.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdate(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	order := seedOrder(t, repo, nil)

	err := repo.Update(context.Background(), order.ID, map[string]any{
		"status":             enums.OrderStatusPaid,
		"guide_income_cents": 7500,
	})
	require.NoError(t, err)

	found, err := repo.Find(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
	assert.EqualValues(t, 7500, found.GuideIncomeCents)
}

func TestRepositoryListByCustomer(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	customerID := uuid.New()

	for i := 0; i < 3; i++ {
		seedOrder(t, repo, func(o *models.Order) {
			o.CustomerID = customerID
			o.CreatedAt = time.Date(2026, 5, 1, 10+i, 0, 0, 0, time.UTC)
		})
	}
	seedOrder(t, repo, func(o *models.Order) {
		o.CustomerID = customerID
		o.Status = enums.OrderStatusPaid
		o.CreatedAt = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	})
	seedOrder(t, repo, nil) // other customer

	list, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 10}, Filters{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 4)
	assert.Nil(t, list.NextCursor)

	paid := enums.OrderStatusPaid
	list, err = repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 10}, Filters{Status: &paid})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)

	// Page of 2 leaves a cursor; following it drains the rest.
	first, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 2}, Filters{})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotNil(t, first.NextCursor)

	second, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 10, Cursor: *first.NextCursor}, Filters{})
	require.NoError(t, err)
	assert.Len(t, second.Orders, 2)
	assert.Nil(t, second.NextCursor)
}

func TestRepositoryCancelPendingBefore(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	stale := seedOrder(t, repo, func(o *models.Order) {
		o.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	})
	fresh := seedOrder(t, repo, func(o *models.Order) {
		o.CreatedAt = time.Now().UTC().Add(-10 * time.Minute)
	})
	paid := seedOrder(t, repo, func(o *models.Order) {
		o.Status = enums.OrderStatusPaid
		o.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	})

	cancelled, err := repo.CancelPendingBefore(context.Background(), time.Now().UTC().Add(-75*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, cancelled)

	found, err := repo.Find(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, found.Status)

	found, err = repo.Find(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, found.Status)

	found, err = repo.Find(context.Background(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, found.Status)
}

func TestRepositoryFindServiceEndedBefore(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	now := time.Now().UTC()

	old := now.Add(-30 * time.Hour)
	recent := now.Add(-2 * time.Hour)

	settleable := seedOrder(t, repo, func(o *models.Order) {
		o.Status = enums.OrderStatusServiceEnded
		o.ActualEndTime = &old
	})
	seedOrder(t, repo, func(o *models.Order) {
		o.Status = enums.OrderStatusServiceEnded
		o.ActualEndTime = &recent
	})
	seedOrder(t, repo, func(o *models.Order) {
		o.Status = enums.OrderStatusCompleted
		o.ActualEndTime = &old
	})

	rows, err := repo.FindServiceEndedBefore(context.Background(), now.Add(-24*time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, settleable.ID, rows[0].ID)
}

func TestRepositoryCreatePayment(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, repo, nil)

	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		RelatedType:   enums.PaymentRelatedOrder,
		RelatedID:     order.ID,
		Method:        enums.PaymentMethodCard,
		TransactionID: "txn-1",
		AmountCents:   10000,
		Status:        enums.PaymentStatusSucceeded,
		PaidAt:        time.Now().UTC(),
	}
	require.NoError(t, repo.CreatePayment(context.Background(), payment))

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

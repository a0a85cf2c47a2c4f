package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guideway/guideway-backend/pkg/db/models"
	"github.com/guideway/guideway-backend/pkg/money"
	"github.com/guideway/guideway-backend/pkg/pagination"
)

// Repository persists guide balances and their immutable ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	AddToBalance(ctx context.Context, guideID uuid.UUID, amount money.Cents) error
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	FindBalance(ctx context.Context, guideID uuid.UUID) (*models.GuideBalance, error)
	ListEntries(ctx context.Context, guideID uuid.UUID, params pagination.Params) (*EntryList, error)
}

// EntryList wraps paginated ledger entries plus the next page cursor.
type EntryList struct {
	Entries    []models.LedgerEntry `json:"entries"`
	NextCursor *string              `json:"next_cursor,omitempty"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// AddToBalance upserts the balance row with a single database-level
// increment. Concurrent settlements serialize on the row; the application
// never reads, adds and writes back.
func (r *repository) AddToBalance(ctx context.Context, guideID uuid.UUID, amount money.Cents) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guide_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"available_cents": gorm.Expr("available_cents + excluded.available_cents"),
			}),
		}).
		Create(&models.GuideBalance{
			GuideID:        guideID,
			AvailableCents: amount,
		}).Error
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindBalance(ctx context.Context, guideID uuid.UUID) (*models.GuideBalance, error) {
	var balance models.GuideBalance
	err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *repository) ListEntries(ctx context.Context, guideID uuid.UUID, params pagination.Params) (*EntryList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("guide_id = ?", guideID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.LedgerEntry
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &EntryList{Entries: rows}
	if len(rows) > limit {
		list.Entries = rows[:limit]
		last := list.Entries[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		list.NextCursor = &next
	}
	return list, nil
}

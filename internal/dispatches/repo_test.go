package dispatches

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDispatchTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS paper_dispatches (
  id TEXT PRIMARY KEY,
  distributer_id TEXT NOT NULL,
  sold_by TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  mode TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedDispatch(t *testing.T, repo Repository, distributerID, soldBy uuid.UUID, createdAt time.Time) *models.PaperDispatch {
	t.Helper()
	dispatch, err := repo.Create(context.Background(), &models.PaperDispatch{
		ID:            uuid.New(),
		DistributerID: distributerID,
		SoldBy:        soldBy,
		Qty:           50,
		Unit:          "copies",
		TotalPrice:    decimal.NewFromInt(225),
		Mode:          enums.DispatchModeCash,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return dispatch
}

func TestCreateAndFindDispatch(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedDispatch(t, repo, uuid.New(), uuid.New(), time.Now().UTC())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.DistributerID, found.DistributerID)
	assert.Equal(t, 50, found.Qty)
	assert.True(t, found.TotalPrice.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, enums.DispatchModeCash, found.Mode)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListFiltersBySellerAndDistributer(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	distributer := uuid.New()
	seller := uuid.New()
	now := time.Now().UTC()

	mine := seedDispatch(t, repo, distributer, seller, now)
	seedDispatch(t, repo, distributer, uuid.New(), now)
	seedDispatch(t, repo, uuid.New(), seller, now)

	rows, err := repo.List(ctx, pagination.Params{}, DispatchFilters{DistributerID: &distributer, SellerID: &seller})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	bySeller, err := repo.List(ctx, pagination.Params{}, DispatchFilters{SellerID: &seller})
	require.NoError(t, err)
	assert.Len(t, bySeller, 2)
}

func TestListDateRangeIsHalfOpen(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seller := uuid.New()
	dayStart := time.Date(2025, time.August, 14, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	seedDispatch(t, repo, uuid.New(), seller, dayStart.Add(-time.Minute))
	inside := seedDispatch(t, repo, uuid.New(), seller, dayStart.Add(10*time.Hour))
	seedDispatch(t, repo, uuid.New(), seller, dayEnd)

	rows, err := repo.List(ctx, pagination.Params{}, DispatchFilters{
		SellerID:  &seller,
		RangeFrom: &dayStart,
		RangeTo:   &dayEnd,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inside.ID, rows[0].ID)
}

func TestListNewestFirstWithPaging(t *testing.T) {
	db := setupDispatchTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seller := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		d := seedDispatch(t, repo, uuid.New(), seller, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, d.ID)
	}

	first, err := repo.List(ctx, pagination.Params{Page: 1, Limit: 2}, DispatchFilters{SellerID: &seller})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[2], first[0].ID)
	assert.Equal(t, ids[1], first[1].ID)

	second, err := repo.List(ctx, pagination.Params{Page: 2, Limit: 2}, DispatchFilters{SellerID: &seller})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, ids[0], second[0].ID)
}

package ledger

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

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  distributer_id TEXT NOT NULL,
  transaction_add_by TEXT,
  order_id TEXT,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  payment_mode TEXT NOT NULL,
  reference TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedTransaction(t *testing.T, repo Repository, distributerID uuid.UUID, txType enums.TransactionType, amount int64, createdAt time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:            uuid.New(),
		DistributerID: distributerID,
		Type:          txType,
		Amount:        decimal.NewFromInt(amount),
		PaymentMode:   enums.LedgerPaymentModeCash,
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), txn))
	return txn
}

func TestListFiltersByDistributerAndType(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := uuid.New()
	other := uuid.New()
	now := time.Now().UTC()

	seedTransaction(t, repo, mine, enums.TransactionTypeCredit, 100, now.Add(-2*time.Hour))
	seedTransaction(t, repo, mine, enums.TransactionTypeDebit, 40, now.Add(-time.Hour))
	seedTransaction(t, repo, other, enums.TransactionTypeCredit, 999, now)

	rows, err := repo.List(ctx, pagination.Params{}, TransactionFilters{DistributerID: &mine})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	credit := enums.TransactionTypeCredit
	rows, err = repo.List(ctx, pagination.Params{}, TransactionFilters{DistributerID: &mine, Type: &credit})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestListFiltersByActor(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	actor := uuid.New()
	distributerID := uuid.New()
	txn := &models.Transaction{
		ID:               uuid.New(),
		DistributerID:    distributerID,
		TransactionAddBy: &actor,
		Type:             enums.TransactionTypeCredit,
		Amount:           decimal.NewFromInt(75),
		PaymentMode:      enums.LedgerPaymentModeUPI,
	}
	require.NoError(t, repo.Create(ctx, txn))
	seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 10, time.Now())

	rows, err := repo.List(ctx, pagination.Params{}, TransactionFilters{ActorID: &actor})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, txn.ID, rows[0].ID)
}

func TestListNewestFirstAndPaginates(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	distributerID := uuid.New()
	now := time.Now().UTC()
	oldest := seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 1, now.Add(-3*time.Hour))
	middle := seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 2, now.Add(-2*time.Hour))
	newest := seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 3, now.Add(-time.Hour))

	rows, err := repo.List(ctx, pagination.Params{Page: 1, Limit: 2}, TransactionFilters{DistributerID: &distributerID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)

	rows, err = repo.List(ctx, pagination.Params{Page: 2, Limit: 2}, TransactionFilters{DistributerID: &distributerID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestSummarize(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	distributerID := uuid.New()
	now := time.Now().UTC()
	seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 300, now.Add(-2*time.Hour))
	seedTransaction(t, repo, distributerID, enums.TransactionTypeCredit, 200, now.Add(-time.Hour))
	seedTransaction(t, repo, distributerID, enums.TransactionTypeDebit, 150, now)
	seedTransaction(t, repo, uuid.New(), enums.TransactionTypeCredit, 999, now)

	summary, err := repo.Summarize(ctx, distributerID, TransactionFilters{})
	require.NoError(t, err)

	assert.True(t, summary.TotalCredit.Equal(decimal.NewFromInt(500)), "credit %s", summary.TotalCredit)
	assert.True(t, summary.TotalDebit.Equal(decimal.NewFromInt(150)), "debit %s", summary.TotalDebit)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(350)), "balance %s", summary.Balance)
	assert.EqualValues(t, 3, summary.Count)
	require.NotNil(t, summary.LastEntryAt)
	assert.WithinDuration(t, now, *summary.LastEntryAt, time.Second)
}

func TestSummarizeEmptyLedger(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	summary, err := repo.Summarize(context.Background(), uuid.New(), TransactionFilters{})
	require.NoError(t, err)

	assert.True(t, summary.TotalCredit.IsZero())
	assert.True(t, summary.TotalDebit.IsZero())
	assert.True(t, summary.Balance.IsZero())
	assert.EqualValues(t, 0, summary.Count)
	assert.Nil(t, summary.LastEntryAt)
}

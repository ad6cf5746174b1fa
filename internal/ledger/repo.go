package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters TransactionFilters) ([]models.Transaction, error) {
	query := applyFilters(r.db.WithContext(ctx), filters).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageLimit())

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) Summarize(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error) {
	filters.DistributerID = &distributerID

	var row struct {
		TotalCredit decimal.Decimal
		TotalDebit  decimal.Decimal
		Count       int64
	}

	err := applyFilters(r.db.WithContext(ctx).Model(&models.Transaction{}), filters).
		Select(`
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_credit,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS total_debit,
			COUNT(*) AS count`,
			enums.TransactionTypeCredit, enums.TransactionTypeDebit).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	// MAX(created_at) loses the column's declared type on sqlite and
	// comes back as a string, so the newest timestamp is read through
	// the model instead.
	var lastEntryAt *time.Time
	if row.Count > 0 {
		var newest models.Transaction
		err := applyFilters(r.db.WithContext(ctx).Model(&models.Transaction{}), filters).
			Select("created_at").
			Order("created_at DESC").
			Limit(1).
			Take(&newest).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if err == nil {
			lastEntryAt = &newest.CreatedAt
		}
	}

	return &Summary{
		DistributerID: distributerID,
		TotalCredit:   row.TotalCredit,
		TotalDebit:    row.TotalDebit,
		Balance:       row.TotalCredit.Sub(row.TotalDebit),
		Count:         row.Count,
		LastEntryAt:   lastEntryAt,
	}, nil
}

func applyFilters(query *gorm.DB, filters TransactionFilters) *gorm.DB {
	if filters.DistributerID != nil {
		query = query.Where("distributer_id = ?", *filters.DistributerID)
	}
	if filters.ActorID != nil {
		query = query.Where("transaction_add_by = ?", *filters.ActorID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at < ?", *filters.DateTo)
	}
	return query
}

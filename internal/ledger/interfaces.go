package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository manages persistence for ledger transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Transaction, error)
	List(ctx context.Context, params pagination.Params, filters TransactionFilters) ([]models.Transaction, error)
	Summarize(ctx context.Context, distributerID uuid.UUID, filters TransactionFilters) (*Summary, error)
}

package distributers

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the distributer directory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, distributer *models.Distributer) (*models.Distributer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Distributer, error)
	List(ctx context.Context, addedBy *uuid.UUID) ([]models.Distributer, error)
	UpdateFCMToken(ctx context.Context, id uuid.UUID, token *string) error
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

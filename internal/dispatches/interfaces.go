package dispatches

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for paper dispatches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dispatch *models.PaperDispatch) (*models.PaperDispatch, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaperDispatch, error)
	List(ctx context.Context, params pagination.Params, filters DispatchFilters) ([]models.PaperDispatch, error)
}

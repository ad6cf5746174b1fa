package dispatches

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dispatch repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dispatch *models.PaperDispatch) (*models.PaperDispatch, error) {
	if err := r.db.WithContext(ctx).Create(dispatch).Error; err != nil {
		return nil, err
	}
	return dispatch, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaperDispatch, error) {
	var dispatch models.PaperDispatch
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dispatch).Error
	if err != nil {
		return nil, err
	}
	return &dispatch, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters DispatchFilters) ([]models.PaperDispatch, error) {
	query := applyFilters(r.db.WithContext(ctx), filters).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageLimit())

	var rows []models.PaperDispatch
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyFilters(query *gorm.DB, filters DispatchFilters) *gorm.DB {
	if filters.DistributerID != nil {
		query = query.Where("distributer_id = ?", *filters.DistributerID)
	}
	if filters.SellerID != nil {
		query = query.Where("sold_by = ?", *filters.SellerID)
	}
	if filters.RangeFrom != nil {
		query = query.Where("created_at >= ?", *filters.RangeFrom)
	}
	if filters.RangeTo != nil {
		query = query.Where("created_at < ?", *filters.RangeTo)
	}
	return query
}

package distributers

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a distributers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, distributer *models.Distributer) (*models.Distributer, error) {
	if err := r.db.WithContext(ctx).Create(distributer).Error; err != nil {
		return nil, err
	}
	return distributer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Distributer, error) {
	var distributer models.Distributer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&distributer).Error
	if err != nil {
		return nil, err
	}
	return &distributer, nil
}

func (r *repository) List(ctx context.Context, addedBy *uuid.UUID) ([]models.Distributer, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if addedBy != nil {
		query = query.Where("added_by = ?", *addedBy)
	}
	var rows []models.Distributer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateFCMToken(ctx context.Context, id uuid.UUID, token *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Distributer{}).
		Where("id = ?", id).
		Update("fcm_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Distributer{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

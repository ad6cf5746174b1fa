package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for staff actors.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateFCMToken(ctx context.Context, id uuid.UUID, token *string) error
}

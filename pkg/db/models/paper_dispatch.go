package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperlane/circulation-backend/pkg/enums"
)

// PaperDispatch records a manual stock-out of papers to a distributer,
// independent of the order flow.
type PaperDispatch struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DistributerID uuid.UUID          `gorm:"column:distributer_id;type:uuid;not null"`
	SoldBy        uuid.UUID          `gorm:"column:sold_by;type:uuid;not null"`
	Qty           int                `gorm:"column:qty;not null"`
	Unit          string             `gorm:"column:unit;type:text;not null"`
	TotalPrice    decimal.Decimal    `gorm:"column:total_price;type:numeric(12,2);not null"`
	Mode          enums.DispatchMode `gorm:"column:mode;type:text;not null"`
	Distributer   *Distributer       `gorm:"foreignKey:DistributerID"`
	Seller        *User              `gorm:"foreignKey:SoldBy"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperlane/circulation-backend/pkg/enums"
)

// Order is a paper order placed by a distributer and fulfilled by the field
// user who onboarded them.
type Order struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       string                 `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	DistributerID uuid.UUID              `gorm:"column:distributer_id;type:uuid;not null"`
	Qty           int                    `gorm:"column:qty;not null"`
	Unit          string                 `gorm:"column:unit;type:text;not null"`
	Note          *string                `gorm:"column:note;type:text"`
	Total         decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	Paid          bool                   `gorm:"column:paid;not null;default:false"`
	Status        enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'processing'"`
	PaymentMode   enums.OrderPaymentMode `gorm:"column:payment_mode;type:text;not null"`
	AssignedTo    *uuid.UUID             `gorm:"column:assigned_to;type:uuid"`
	COD           bool                   `gorm:"column:cod;not null;default:false"`
	TransactionID *string                `gorm:"column:transaction_id;type:text"`
	PaidAt        *time.Time             `gorm:"column:paid_at"`
	Distributer   *Distributer           `gorm:"foreignKey:DistributerID"`
	Assignee      *User                  `gorm:"foreignKey:AssignedTo"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperlane/circulation-backend/pkg/enums"
)

// Transaction is an immutable ledger entry tied to a distributer. Credits are
// produced by order payments, debits by paper dispatches. There is no update
// or delete path.
type Transaction struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DistributerID    uuid.UUID               `gorm:"column:distributer_id;type:uuid;not null"`
	TransactionAddBy *uuid.UUID              `gorm:"column:transaction_add_by;type:uuid"`
	OrderID          *uuid.UUID              `gorm:"column:order_id;type:uuid"`
	Type             enums.TransactionType   `gorm:"column:type;type:text;not null"`
	Amount           decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMode      enums.LedgerPaymentMode `gorm:"column:payment_mode;type:text;not null"`
	Reference        *string                 `gorm:"column:reference;type:text"`
	Distributer      *Distributer            `gorm:"foreignKey:DistributerID"`
	AddedBy          *User                   `gorm:"foreignKey:TransactionAddBy"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// TransactionFilters describe the inputs supported by the transaction list.
type TransactionFilters struct {
	DistributerID *uuid.UUID
	ActorID       *uuid.UUID
	Type          *enums.TransactionType
	DateFrom      *time.Time
	DateTo        *time.Time
}

// TransactionList wraps one page of ledger entries.
type TransactionList struct {
	Transactions []TransactionSummary `json:"transactions"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
}

// TransactionSummary exposes the fields returned in the transaction list.
type TransactionSummary struct {
	ID               uuid.UUID               `json:"id"`
	DistributerID    uuid.UUID               `json:"distributer_id"`
	TransactionAddBy *uuid.UUID              `json:"transaction_add_by,omitempty"`
	OrderID          *uuid.UUID              `json:"order_id,omitempty"`
	Type             enums.TransactionType   `json:"type"`
	Amount           decimal.Decimal         `json:"amount"`
	PaymentMode      enums.LedgerPaymentMode `json:"payment_mode"`
	Reference        *string                 `json:"reference,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

// Summary aggregates a distributer's ledger position.
type Summary struct {
	DistributerID uuid.UUID       `json:"distributer_id"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	Balance       decimal.Decimal `json:"balance"`
	Count         int64           `json:"count"`
	LastEntryAt   *time.Time      `json:"last_entry_at,omitempty"`
}

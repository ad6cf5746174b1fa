package dispatches

import (
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// RecordDispatchInput captures a counter sale of papers to a distributer.
type RecordDispatchInput struct {
	DistributerID uuid.UUID
	Qty           int
	Unit          string
	TotalPrice    decimal.Decimal
	Mode          string
	// SoldBy is the employee handing over the stock.
	SoldBy uuid.UUID
	// ActorID overrides the ledger actor when set. It defaults to SoldBy.
	ActorID *uuid.UUID
}

// DispatchFilters narrows dispatch listings. Nil fields are ignored and
// RangeTo is exclusive.
type DispatchFilters struct {
	DistributerID *uuid.UUID
	SellerID      *uuid.UUID
	RangeFrom     *time.Time
	RangeTo       *time.Time
}

// DispatchSummary is the listing projection of a dispatch row.
type DispatchSummary struct {
	ID            uuid.UUID          `json:"id"`
	DistributerID uuid.UUID          `json:"distributer_id"`
	SoldBy        uuid.UUID          `json:"sold_by"`
	Qty           int                `json:"qty"`
	Unit          string             `json:"unit"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	Mode          enums.DispatchMode `json:"mode"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DispatchList is a page of dispatch summaries.
type DispatchList struct {
	Dispatches []DispatchSummary `json:"dispatches"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

package orders

import (
	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderFilters describe the inputs supported by the order listings.
type OrderFilters struct {
	DistributerID *uuid.UUID
	AssigneeID    *uuid.UUID
	Status        *enums.OrderStatus
	Paid          *bool
}

// CreateOrderInput captures the data required to place an order.
type CreateOrderInput struct {
	DistributerID uuid.UUID
	Qty           int
	Unit          string
	Note          *string
	Total         decimal.Decimal
	PaymentMode   string
	// AssignedTo overrides the default assignee; only admins may set it.
	AssignedTo *uuid.UUID
	ActorID    uuid.UUID
	ActorAdmin bool
}

// UpdateStatusInput carries a requested status change.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  string
	ActorID uuid.UUID
}

// ReassignInput moves an order onto a different field user.
type ReassignInput struct {
	OrderID    uuid.UUID
	AssigneeID uuid.UUID
	ActorID    uuid.UUID
	ActorAdmin bool
}

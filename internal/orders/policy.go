package orders

import "github.com/paperlane/circulation-backend/pkg/enums"

// TransitionPolicy decides whether a status change is legal. The default
// policy allows any move between valid statuses, matching how the field
// app freely corrects order state today; StrictPolicy is available for
// deployments that want forward-only transitions.
type TransitionPolicy interface {
	Allowed(from, to enums.OrderStatus) bool
}

// PermissivePolicy accepts every transition between valid statuses.
type PermissivePolicy struct{}

func (PermissivePolicy) Allowed(from, to enums.OrderStatus) bool {
	return to.IsValid()
}

// StrictPolicy enforces the forward order lifecycle: pending may start
// processing, processing may complete, and any non-terminal order may be
// cancelled. Terminal orders never move.
type StrictPolicy struct{}

func (StrictPolicy) Allowed(from, to enums.OrderStatus) bool {
	if !to.IsValid() || from.IsTerminal() {
		return false
	}
	switch to {
	case enums.OrderStatusCancelled:
		return true
	case enums.OrderStatusProcessing:
		return from == enums.OrderStatusPending
	case enums.OrderStatusCompleted:
		return from == enums.OrderStatusProcessing
	default:
		return false
	}
}

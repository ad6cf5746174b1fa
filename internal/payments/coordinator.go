// Package payments coordinates order payment updates with the ledger:
// the order row and its credit entry move in one transaction, and a
// repeated paid=true update never writes a second credit.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/internal/orders"
	"github.com/paperlane/circulation-backend/internal/push"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(msg push.Message)
}

// UpdatePaymentInput captures a payment state change for an order. All
// payment fields are optional; absent fields leave the stored order alone.
type UpdatePaymentInput struct {
	OrderID     uuid.UUID
	Paid        *bool
	PaymentMode *string
	// Reference is the externally supplied transaction id; one is
	// synthesized when absent and the order is turning paid.
	Reference *string
	// ActorID is the explicit recording actor from the request body.
	ActorID *uuid.UUID
	// AuthActorID is the authenticated caller.
	AuthActorID *uuid.UUID
}

// Coordinator applies payment updates atomically with their ledger entries.
type Coordinator interface {
	UpdatePayment(ctx context.Context, input UpdatePaymentInput) (*models.Order, error)
}

type coordinator struct {
	orders orders.Repository
	ledger ledger.Service
	tx     txRunner
	notify notifier
}

// NewCoordinator wires the payment coordinator dependencies.
func NewCoordinator(ordersRepo orders.Repository, ledgerSvc ledger.Service, tx txRunner, notify notifier) (Coordinator, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &coordinator{
		orders: ordersRepo,
		ledger: ledgerSvc,
		tx:     tx,
		notify: notify,
	}, nil
}

func (c *coordinator) UpdatePayment(ctx context.Context, input UpdatePaymentInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	var modeOverride *enums.OrderPaymentMode
	if input.PaymentMode != nil {
		parsed, err := enums.ParseOrderPaymentMode(*input.PaymentMode)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		modeOverride = &parsed
	}

	var (
		order        *models.Order
		shouldCredit bool
		ledgerMode   enums.LedgerPaymentMode
	)
	err := c.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := c.orders.WithTx(tx)
		var err error
		order, err = repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		orderMode := order.PaymentMode
		if modeOverride != nil {
			orderMode = *modeOverride
		}
		ledgerMode, err = ledger.NormalizePaymentMode(string(orderMode))
		if err != nil {
			return err
		}

		if input.Paid != nil && !*input.Paid && order.Paid {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already settled, reversal not supported")
		}
		shouldCredit = input.Paid != nil && *input.Paid && !order.Paid

		// A reference is only written when the caller supplied one or the
		// order is turning paid; a repeated paid=true update leaves the
		// stored reference and paid_at alone.
		reference := input.Reference
		if reference == nil && shouldCredit {
			synthesized := ledger.NewReference(ledgerMode)
			reference = &synthesized
		}

		updates := map[string]any{}
		if modeOverride != nil {
			updates["payment_mode"] = orderMode
			order.PaymentMode = orderMode
		}
		if reference != nil {
			updates["transaction_id"] = *reference
			order.TransactionID = reference
		}
		if shouldCredit {
			now := time.Now().UTC()
			updates["paid"] = true
			updates["paid_at"] = now
			order.Paid = true
			order.PaidAt = &now
		}
		if len(updates) > 0 {
			if err := repo.UpdatePayment(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment")
			}
		}

		if shouldCredit {
			txn := ledger.CreditForOrder(order, input.ActorID, input.AuthActorID, ledgerMode, reference)
			if _, err := c.ledger.Record(ctx, tx, txn); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeTxAborted, err, "record payment credit")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if shouldCredit && c.notify != nil {
		c.notify.Notify(push.Message{
			Event:         "order_payment",
			Title:         "Payment received",
			Body:          fmt.Sprintf("%s settled via %s", order.OrderID, ledgerMode),
			RecipientType: enums.RecipientTypeDistributer,
			RecipientID:   order.DistributerID,
			Data:          map[string]string{"order_id": order.OrderID},
		})
	}
	return order, nil
}

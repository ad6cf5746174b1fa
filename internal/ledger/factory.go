package ledger

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/pkg/db/models"
	"github.com/paperlane/circulation-backend/pkg/enums"
	pkgerrors "github.com/paperlane/circulation-backend/pkg/errors"
)

// NormalizePaymentMode maps the order payment vocabulary onto the ledger
// vocabulary: cod settles in cash, onlinepayment has no dedicated ledger
// mode and lands in other, everything else passes through lowercased.
func NormalizePaymentMode(raw string) (enums.LedgerPaymentMode, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case string(enums.OrderPaymentModeCOD):
		return enums.LedgerPaymentModeCash, nil
	case string(enums.OrderPaymentModeOnline):
		return enums.LedgerPaymentModeOther, nil
	}

	parsed, err := enums.ParseLedgerPaymentMode(mode)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment mode %q", raw))
	}
	return parsed, nil
}

var referencePrefixes = map[enums.LedgerPaymentMode]string{
	enums.LedgerPaymentModeUPI:    "UPI",
	enums.LedgerPaymentModeCheque: "CHQ",
	enums.LedgerPaymentModeBank:   "BNK",
	enums.LedgerPaymentModeCash:   "CSH",
}

// NewReference synthesizes a display reference for a transaction that
// arrived without one: a mode prefix, four random digits and the last
// four digits of the current unix timestamp.
func NewReference(mode enums.LedgerPaymentMode) string {
	prefix, ok := referencePrefixes[mode]
	if !ok {
		prefix = "TXN"
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return fmt.Sprintf("%s%04d%s", prefix, rand.IntN(10000), ts[len(ts)-4:])
}

// CreditForOrder builds the credit entry recorded when an order is paid.
// The recording actor is resolved first-defined-wins: the explicit actor
// on the request, then the authenticated actor, then the order assignee.
func CreditForOrder(order *models.Order, explicitActor, authActor *uuid.UUID, mode enums.LedgerPaymentMode, reference *string) *models.Transaction {
	return &models.Transaction{
		DistributerID:    order.DistributerID,
		TransactionAddBy: firstDefined(explicitActor, authActor, order.AssignedTo),
		OrderID:          &order.ID,
		Type:             enums.TransactionTypeCredit,
		Amount:           order.Total,
		PaymentMode:      mode,
		Reference:        reference,
	}
}

// DebitForDispatch builds the debit entry recorded alongside a paper dispatch.
func DebitForDispatch(dispatch *models.PaperDispatch, explicitActor *uuid.UUID) *models.Transaction {
	soldBy := dispatch.SoldBy
	return &models.Transaction{
		DistributerID:    dispatch.DistributerID,
		TransactionAddBy: firstDefined(explicitActor, &soldBy),
		Type:             enums.TransactionTypeDebit,
		Amount:           dispatch.TotalPrice,
		PaymentMode:      dispatch.Mode.LedgerMode(),
	}
}

func firstDefined(candidates ...*uuid.UUID) *uuid.UUID {
	for _, c := range candidates {
		if c != nil && *c != uuid.Nil {
			id := *c
			return &id
		}
	}
	return nil
}

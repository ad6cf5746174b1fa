package enums

import (
	"fmt"
	"strings"
)

// OrderPaymentMode is the payment vocabulary accepted on orders.
type OrderPaymentMode string

const (
	OrderPaymentModeCOD    OrderPaymentMode = "cod"
	OrderPaymentModeOnline OrderPaymentMode = "onlinepayment"
	OrderPaymentModeCash   OrderPaymentMode = "cash"
	OrderPaymentModeUPI    OrderPaymentMode = "upi"
	OrderPaymentModeBank   OrderPaymentMode = "bank"
	OrderPaymentModeCheque OrderPaymentMode = "cheque"
	OrderPaymentModeOther  OrderPaymentMode = "other"
)

var validOrderPaymentModes = []OrderPaymentMode{
	OrderPaymentModeCOD,
	OrderPaymentModeOnline,
	OrderPaymentModeCash,
	OrderPaymentModeUPI,
	OrderPaymentModeBank,
	OrderPaymentModeCheque,
	OrderPaymentModeOther,
}

// String implements fmt.Stringer.
func (m OrderPaymentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known OrderPaymentMode.
func (m OrderPaymentMode) IsValid() bool {
	for _, candidate := range validOrderPaymentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsCOD reports whether the mode is cash-on-delivery.
func (m OrderPaymentMode) IsCOD() bool {
	return m == OrderPaymentModeCOD
}

// ParseOrderPaymentMode converts raw input into an OrderPaymentMode.
// Matching is case-insensitive because mobile clients send mixed case.
func ParseOrderPaymentMode(value string) (OrderPaymentMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validOrderPaymentModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order payment mode %q", value)
}

// LedgerPaymentMode is the narrower payment vocabulary recorded on ledger
// transactions.
type LedgerPaymentMode string

const (
	LedgerPaymentModeCash   LedgerPaymentMode = "cash"
	LedgerPaymentModeBank   LedgerPaymentMode = "bank"
	LedgerPaymentModeUPI    LedgerPaymentMode = "upi"
	LedgerPaymentModeCheque LedgerPaymentMode = "cheque"
	LedgerPaymentModeOther  LedgerPaymentMode = "other"
	LedgerPaymentModeCredit LedgerPaymentMode = "credit"
)

var validLedgerPaymentModes = []LedgerPaymentMode{
	LedgerPaymentModeCash,
	LedgerPaymentModeBank,
	LedgerPaymentModeUPI,
	LedgerPaymentModeCheque,
	LedgerPaymentModeOther,
	LedgerPaymentModeCredit,
}

// String implements fmt.Stringer.
func (m LedgerPaymentMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known LedgerPaymentMode.
func (m LedgerPaymentMode) IsValid() bool {
	for _, candidate := range validLedgerPaymentModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseLedgerPaymentMode converts raw input into a LedgerPaymentMode.
func ParseLedgerPaymentMode(value string) (LedgerPaymentMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validLedgerPaymentModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger payment mode %q", value)
}

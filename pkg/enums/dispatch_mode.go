package enums

import (
	"fmt"
	"strings"
)

// DispatchMode is how a paper dispatch is settled at the counter.
type DispatchMode string

const (
	DispatchModeCredit DispatchMode = "credit"
	DispatchModeCash   DispatchMode = "cash"
)

var validDispatchModes = []DispatchMode{
	DispatchModeCredit,
	DispatchModeCash,
}

// String implements fmt.Stringer.
func (m DispatchMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known DispatchMode.
func (m DispatchMode) IsValid() bool {
	for _, candidate := range validDispatchModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// LedgerMode returns the dispatch mode in the ledger vocabulary. Dispatch
// modes are already a subset of it, so the value passes through unchanged.
func (m DispatchMode) LedgerMode() LedgerPaymentMode {
	return LedgerPaymentMode(m)
}

// ParseDispatchMode converts raw input into a DispatchMode.
func ParseDispatchMode(value string) (DispatchMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDispatchModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch mode %q", value)
}

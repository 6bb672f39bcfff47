package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Store-level sentinel errors.
var (
	ErrAccountExists   = errors.New("account already exists for this owner")
	ErrAccountNotFound = errors.New("account not found")
)

// ValidationError reports malformed caller input (non-positive amount or
// quantity, empty symbol). The offending operation leaves no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientFundsError is returned when the cash balance cannot cover a
// withdrawal or a purchase. Requested is the full amount the operation needed.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %s, have %s", e.Requested, e.Available)
}

// InsufficientSharesError is returned when a sale exceeds the owned quantity.
type InsufficientSharesError struct {
	Symbol    string
	Requested int64
	Owned     int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: cannot sell %d of %s, own %d", e.Requested, e.Symbol, e.Owned)
}

// InvalidSymbolError is returned when the price oracle reports the symbol as
// unknown. Symbol is the normalized form that was looked up.
type InvalidSymbolError struct {
	Symbol string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %q: not a known instrument", e.Symbol)
}

// OracleUnavailableError is returned when the price oracle itself failed or
// timed out, as opposed to reporting the symbol unknown. The ledger is left
// unchanged.
type OracleUnavailableError struct {
	Symbol string
	Err    error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("price oracle unavailable for %q: %v", e.Symbol, e.Err)
}

func (e *OracleUnavailableError) Unwrap() error { return e.Err }

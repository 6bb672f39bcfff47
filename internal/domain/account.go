package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents the authoritative state of one trading account: its
// cash balance and current share holdings. All mutation goes through the
// account ledger; everything else reads copies.
type Account struct {
	ID          uuid.UUID
	OwnerID     string
	CashBalance decimal.Decimal
	Holdings    map[string]int64 // normalized symbol -> quantity, present iff quantity > 0
}

// NewAccount creates an account with an empty holdings map and zero cash.
func NewAccount(ownerID string) *Account {
	return &Account{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CashBalance: decimal.Zero,
		Holdings:    make(map[string]int64),
	}
}

// Clone returns a deep copy, safe to hand outside the mutation boundary.
func (a *Account) Clone() Account {
	holdings := make(map[string]int64, len(a.Holdings))
	for symbol, qty := range a.Holdings {
		holdings[symbol] = qty
	}
	return Account{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		CashBalance: a.CashBalance,
		Holdings:    holdings,
	}
}

// HeldQuantity returns the owned quantity of a normalized symbol, 0 if the
// symbol is not held.
func (a *Account) HeldQuantity(symbol string) int64 {
	return a.Holdings[symbol]
}

// NormalizeSymbol maps a raw symbol to its canonical form: trimmed and
// uppercased. Applied identically on buy, sell and valuation paths so the
// same instrument never fragments into multiple holdings.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

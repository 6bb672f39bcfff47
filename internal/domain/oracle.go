package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle is the external price-lookup capability, keyed by normalized
// symbol. Lookups must be idempotent and side-effect free from the ledger's
// perspective; symbol normalization is the caller's responsibility.
//
// ok=false signals "not a tradable/known instrument". A non-nil error means
// the oracle itself failed or timed out, which is a different condition and
// is surfaced to callers as OracleUnavailableError.
type PriceOracle interface {
	Lookup(ctx context.Context, symbol string) (price decimal.Decimal, ok bool, err error)
}

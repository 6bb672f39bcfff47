package domain

import "github.com/shopspring/decimal"

// HoldingValue is one held position together with its point-in-time
// valuation. Priced is false when the oracle does not know the symbol; the
// position is still listed, it just contributes zero to the totals.
type HoldingValue struct {
	Symbol   string
	Quantity int64
	Price    decimal.Decimal
	Priced   bool
	Value    decimal.Decimal
}

// PortfolioSummary is a derived, point-in-time snapshot of an account's
// worth and performance. It is computed on demand and never stored.
type PortfolioSummary struct {
	CashBalance         decimal.Decimal
	NetDeposits         decimal.Decimal // sum of deposits minus sum of withdrawals
	Holdings            []HoldingValue  // sorted by symbol
	TotalSharesValue    decimal.Decimal
	TotalPortfolioValue decimal.Decimal // cash + shares value
	ProfitLoss          decimal.Decimal // total portfolio value - net deposits
}

package valuation

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
)

// DefaultOracleTimeout bounds each per-symbol price lookup.
const DefaultOracleTimeout = 3 * time.Second

// AccountView is the read-only surface the valuator needs from a ledger.
type AccountView interface {
	Snapshot() domain.Account
	History() []domain.Transaction
}

// ValuationService computes point-in-time portfolio summaries. It never
// mutates ledger state; it reads a snapshot and prices it with live oracle
// lookups.
type ValuationService struct {
	oracle        domain.PriceOracle
	oracleTimeout time.Duration
}

// NewValuationService creates a new ValuationService instance.
func NewValuationService(oracle domain.PriceOracle) *ValuationService {
	return &ValuationService{
		oracle:        oracle,
		oracleTimeout: DefaultOracleTimeout,
	}
}

// WithOracleTimeout overrides the bound applied to oracle lookups.
func (s *ValuationService) WithOracleTimeout(d time.Duration) *ValuationService {
	if d > 0 {
		s.oracleTimeout = d
	}
	return s
}

// Summarize values every held symbol at its current oracle price and derives
// the account's totals and profit/loss.
//
// A symbol the oracle does not know contributes zero value but is still
// listed — a missing price never hides a position. An oracle failure, by
// contrast, aborts the whole summary with OracleUnavailableError: "no such
// instrument" and "pricing service down" are different conditions.
func (s *ValuationService) Summarize(ctx context.Context, view AccountView) (*domain.PortfolioSummary, error) {
	account := view.Snapshot()
	history := view.History()

	symbols := make([]string, 0, len(account.Holdings))
	for symbol := range account.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	holdings := make([]domain.HoldingValue, 0, len(symbols))
	totalShares := decimal.Zero
	for _, symbol := range symbols {
		quantity := account.Holdings[symbol]

		price, ok, err := s.lookup(ctx, symbol)
		if err != nil {
			return nil, &domain.OracleUnavailableError{Symbol: symbol, Err: err}
		}

		hv := domain.HoldingValue{
			Symbol:   symbol,
			Quantity: quantity,
			Priced:   ok,
		}
		if ok {
			hv.Price = price
			hv.Value = price.Mul(decimal.NewFromInt(quantity))
			totalShares = totalShares.Add(hv.Value)
		}
		holdings = append(holdings, hv)
	}

	// Net deposits come from the full log on every call, never a cache, so
	// the cost basis always matches the latest history.
	netDeposits := decimal.Zero
	for _, tx := range history {
		switch tx.Kind {
		case domain.KindDeposit:
			netDeposits = netDeposits.Add(tx.TotalAmount)
		case domain.KindWithdrawal:
			netDeposits = netDeposits.Sub(tx.TotalAmount)
		}
	}

	totalValue := account.CashBalance.Add(totalShares)

	return &domain.PortfolioSummary{
		CashBalance:         account.CashBalance,
		NetDeposits:         netDeposits,
		Holdings:            holdings,
		TotalSharesValue:    totalShares,
		TotalPortfolioValue: totalValue,
		ProfitLoss:          totalValue.Sub(netDeposits),
	}, nil
}

func (s *ValuationService) lookup(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()
	return s.oracle.Lookup(ctx, symbol)
}

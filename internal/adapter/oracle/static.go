package oracle

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Static is an in-memory price oracle backed by a fixed table. It is the
// default oracle for local runs, demos and tests.
type Static struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStatic creates a static oracle with the given price table. Keys are
// expected in normalized (uppercase) form.
func NewStatic(prices map[string]decimal.Decimal) *Static {
	table := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		table[symbol] = price
	}
	return &Static{prices: table}
}

// NewStaticDefault creates a static oracle with the stock demo table.
func NewStaticDefault() *Static {
	return NewStatic(map[string]decimal.Decimal{
		"AAPL":  decimal.NewFromFloat(150.00),
		"TSLA":  decimal.NewFromFloat(300.00),
		"GOOGL": decimal.NewFromFloat(2200.00),
	})
}

// Lookup implements domain.PriceOracle.
func (s *Static) Lookup(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Zero, false, nil
	}
	return price, true, nil
}

// SetPrice adds or updates a quote. Used by tests and demo tooling to move
// the market.
func (s *Static) SetPrice(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}

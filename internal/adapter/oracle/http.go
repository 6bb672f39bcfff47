package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// HTTPOracle fetches quotes from a JSON pricing endpoint:
//
//	GET {base}/prices/{symbol} -> 200 {"symbol": "AAPL", "price": "150.00"}
//	                              404 for an unknown instrument
//
// Any transport failure or unexpected status is an oracle failure, not an
// unknown symbol. Deadlines come from the caller's context.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
}

// NewHTTPOracle creates an oracle client against the given base URL.
func NewHTTPOracle(baseURL string, client *http.Client) *HTTPOracle {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type priceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Lookup implements domain.PriceOracle.
func (o *HTTPOracle) Lookup(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	endpoint := o.baseURL + "/prices/" + url.PathEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("build price request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("fetch price for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return decimal.Zero, false, nil
	default:
		return decimal.Zero, false, fmt.Errorf("price endpoint returned %d for %s", resp.StatusCode, symbol)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, false, fmt.Errorf("decode price response for %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid price %q for %s: %w", body.Price, symbol, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, false, fmt.Errorf("non-positive price %s for %s", price, symbol)
	}

	return price, true, nil
}

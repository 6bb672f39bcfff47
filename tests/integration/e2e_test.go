package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/paperdesk-backend/internal/adapter/httpapi"
	"github.com/paperdesk/paperdesk-backend/internal/adapter/oracle"
	"github.com/paperdesk/paperdesk-backend/internal/usecase/store"
)

const apiToken = "e2e-token"

type apiClient struct {
	t   *testing.T
	srv *httptest.Server
}

func newAPIClient(t *testing.T) (*apiClient, *oracle.Static) {
	t.Helper()
	prices := oracle.NewStaticDefault()
	accounts := store.NewAccountStore(prices)
	srv := httptest.NewServer(httpapi.NewServer(accounts).Router(apiToken, nil))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}, prices
}

// do sends an authenticated request and decodes the response into out when
// the status matches. On a mismatch it fails the test with the error body.
func (c *apiClient) do(method, path string, body any, wantStatus int, out any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	require.Equal(c.t, wantStatus, resp.StatusCode, "%s %s", method, path)
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TestAccountLifecycle drives a full trading session through the HTTP API:
// open, fund, trade through a price move, and verify the books balance.
func TestAccountLifecycle(t *testing.T) {
	api, prices := newAPIClient(t)

	var account struct {
		OwnerID     string           `json:"owner_id"`
		CashBalance string           `json:"cash_balance"`
		Holdings    map[string]int64 `json:"holdings"`
	}
	api.do(http.MethodPost, "/v1/accounts", map[string]any{
		"owner_id":        "trader123",
		"initial_deposit": "10000.00",
	}, http.StatusCreated, &account)
	assert.Equal(t, "trader123", account.OwnerID)
	assert.Equal(t, "10000", account.CashBalance)

	var balance struct {
		CashBalance string `json:"cash_balance"`
	}
	api.do(http.MethodPost, "/v1/accounts/trader123/deposits",
		map[string]any{"amount": "2000"}, http.StatusOK, &balance)
	assert.Equal(t, "12000", balance.CashBalance)

	// Symbol arrives unnormalized; the fill comes back clean
	var receipt struct {
		Symbol       string `json:"symbol"`
		Quantity     int64  `json:"quantity"`
		PricePerUnit string `json:"price_per_unit"`
		TotalAmount  string `json:"total_amount"`
	}
	api.do(http.MethodPost, "/v1/accounts/trader123/purchases",
		map[string]any{"symbol": "aapl ", "quantity": 10}, http.StatusOK, &receipt)
	assert.Equal(t, "AAPL", receipt.Symbol)
	assert.Equal(t, "150", receipt.PricePerUnit)
	assert.Equal(t, "1500", receipt.TotalAmount)

	// Market moves up, position is closed at the new price
	prices.SetPrice("AAPL", decimal.NewFromInt(160))
	api.do(http.MethodPost, "/v1/accounts/trader123/sales",
		map[string]any{"symbol": "AAPL", "quantity": 10}, http.StatusOK, &receipt)
	assert.Equal(t, "1600", receipt.TotalAmount)

	// Overdraw attempt bounces without touching the balance
	var apiErr errorEnvelope
	api.do(http.MethodPost, "/v1/accounts/trader123/withdrawals",
		map[string]any{"amount": "99999"}, http.StatusUnprocessableEntity, &apiErr)
	assert.Equal(t, "insufficient_funds", apiErr.Error.Code)

	// Unknown instrument bounces the same way
	api.do(http.MethodPost, "/v1/accounts/trader123/purchases",
		map[string]any{"symbol": "FAKE", "quantity": 1}, http.StatusUnprocessableEntity, &apiErr)
	assert.Equal(t, "invalid_symbol", apiErr.Error.Code)

	var summary struct {
		CashBalance         string `json:"cash_balance"`
		NetDeposits         string `json:"net_deposits"`
		Holdings            []any  `json:"holdings"`
		TotalPortfolioValue string `json:"total_portfolio_value"`
		ProfitLoss          string `json:"profit_loss"`
	}
	api.do(http.MethodGet, "/v1/accounts/trader123/summary", nil, http.StatusOK, &summary)
	assert.Equal(t, "12100", summary.CashBalance)
	assert.Equal(t, "12000", summary.NetDeposits)
	assert.Empty(t, summary.Holdings)
	assert.Equal(t, "12100", summary.TotalPortfolioValue)
	assert.Equal(t, "100", summary.ProfitLoss)

	// History records the four successful operations, most recent first, and
	// none of the rejected ones
	var history []struct {
		Sequence int64  `json:"sequence"`
		Kind     string `json:"kind"`
	}
	api.do(http.MethodGet, "/v1/accounts/trader123/transactions", nil, http.StatusOK, &history)
	require.Len(t, history, 4)
	kinds := make([]string, 0, len(history))
	for _, tx := range history {
		kinds = append(kinds, tx.Kind)
	}
	assert.Equal(t, []string{"SELL", "BUY", "DEPOSIT", "DEPOSIT"}, kinds)
	assert.Equal(t, int64(4), history[0].Sequence)
}

func TestMultipleIndependentAccounts(t *testing.T) {
	api, _ := newAPIClient(t)

	api.do(http.MethodPost, "/v1/accounts", map[string]any{
		"owner_id": "alice", "initial_deposit": "5000",
	}, http.StatusCreated, nil)
	api.do(http.MethodPost, "/v1/accounts", map[string]any{
		"owner_id": "bob", "initial_deposit": "300",
	}, http.StatusCreated, nil)

	api.do(http.MethodPost, "/v1/accounts/alice/purchases",
		map[string]any{"symbol": "TSLA", "quantity": 10}, http.StatusOK, nil)

	// Bob's account is untouched by Alice's trading
	var bob struct {
		CashBalance string           `json:"cash_balance"`
		Holdings    map[string]int64 `json:"holdings"`
	}
	api.do(http.MethodGet, "/v1/accounts/bob", nil, http.StatusOK, &bob)
	assert.Equal(t, "300", bob.CashBalance)
	assert.Empty(t, bob.Holdings)

	var apiErr errorEnvelope
	api.do(http.MethodPost, "/v1/accounts/bob/purchases",
		map[string]any{"symbol": "TSLA", "quantity": 10},
		http.StatusUnprocessableEntity, &apiErr)
	assert.Equal(t, "insufficient_funds", apiErr.Error.Code)
}

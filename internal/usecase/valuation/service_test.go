package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
)

type MockPriceOracle struct {
	mock.Mock
}

func (m *MockPriceOracle) Lookup(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

// stubView feeds a fixed account state and history into the valuator.
type stubView struct {
	account domain.Account
	history []domain.Transaction
}

func (v *stubView) Snapshot() domain.Account { return v.account }

func (v *stubView) History() []domain.Transaction { return v.history }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarize(t *testing.T) {
	oracle := new(MockPriceOracle)
	oracle.On("Lookup", mock.Anything, "AAPL").Return(dec("160.00"), true, nil)
	oracle.On("Lookup", mock.Anything, "TSLA").Return(dec("300.00"), true, nil)

	view := &stubView{
		account: domain.Account{
			OwnerID:     "trader123",
			CashBalance: dec("8500.00"),
			Holdings:    map[string]int64{"TSLA": 2, "AAPL": 10},
		},
		history: []domain.Transaction{
			{Sequence: 1, Kind: domain.KindDeposit, TotalAmount: dec("12000.00")},
			{Sequence: 2, Kind: domain.KindBuy, Symbol: "AAPL", Quantity: 10, TotalAmount: dec("1500.00")},
			{Sequence: 3, Kind: domain.KindWithdrawal, TotalAmount: dec("1000.00")},
			{Sequence: 4, Kind: domain.KindBuy, Symbol: "TSLA", Quantity: 2, TotalAmount: dec("600.00")},
		},
	}

	summary, err := NewValuationService(oracle).Summarize(context.Background(), view)

	require.NoError(t, err)
	assert.True(t, summary.CashBalance.Equal(dec("8500.00")))

	// Deposits minus withdrawals, trades excluded
	assert.True(t, summary.NetDeposits.Equal(dec("11000.00")))

	// Holdings come back in symbol order
	require.Len(t, summary.Holdings, 2)
	assert.Equal(t, "AAPL", summary.Holdings[0].Symbol)
	assert.Equal(t, "TSLA", summary.Holdings[1].Symbol)
	assert.True(t, summary.Holdings[0].Value.Equal(dec("1600.00")))
	assert.True(t, summary.Holdings[1].Value.Equal(dec("600.00")))

	assert.True(t, summary.TotalSharesValue.Equal(dec("2200.00")))
	assert.True(t, summary.TotalPortfolioValue.Equal(dec("10700.00")))
	assert.True(t, summary.ProfitLoss.Equal(dec("-300.00")))
}

func TestSummarize_CashOnlyAccount(t *testing.T) {
	view := &stubView{
		account: domain.Account{
			OwnerID:     "trader123",
			CashBalance: dec("10000.00"),
			Holdings:    map[string]int64{},
		},
		history: []domain.Transaction{
			{Sequence: 1, Kind: domain.KindDeposit, TotalAmount: dec("10000.00")},
		},
	}

	oracle := new(MockPriceOracle)
	summary, err := NewValuationService(oracle).Summarize(context.Background(), view)

	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.True(t, summary.TotalSharesValue.IsZero())
	assert.True(t, summary.TotalPortfolioValue.Equal(dec("10000.00")))
	assert.True(t, summary.ProfitLoss.IsZero())
	oracle.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestSummarize_UnpricedSymbolListedAtZero(t *testing.T) {
	oracle := new(MockPriceOracle)
	oracle.On("Lookup", mock.Anything, "DLST").Return(decimal.Zero, false, nil)

	view := &stubView{
		account: domain.Account{
			OwnerID:     "trader123",
			CashBalance: dec("1000.00"),
			Holdings:    map[string]int64{"DLST": 7},
		},
		history: []domain.Transaction{
			{Sequence: 1, Kind: domain.KindDeposit, TotalAmount: dec("2000.00")},
		},
	}

	summary, err := NewValuationService(oracle).Summarize(context.Background(), view)

	require.NoError(t, err)
	require.Len(t, summary.Holdings, 1)
	assert.Equal(t, "DLST", summary.Holdings[0].Symbol)
	assert.Equal(t, int64(7), summary.Holdings[0].Quantity)
	assert.False(t, summary.Holdings[0].Priced)
	assert.True(t, summary.Holdings[0].Value.IsZero())
	assert.True(t, summary.TotalPortfolioValue.Equal(dec("1000.00")))
}

func TestSummarize_OracleFailureAborts(t *testing.T) {
	oracle := new(MockPriceOracle)
	oracle.On("Lookup", mock.Anything, "AAPL").Return(decimal.Zero, false, errors.New("connection refused"))

	view := &stubView{
		account: domain.Account{
			OwnerID:     "trader123",
			CashBalance: dec("1000.00"),
			Holdings:    map[string]int64{"AAPL": 1},
		},
		history: []domain.Transaction{
			{Sequence: 1, Kind: domain.KindDeposit, TotalAmount: dec("1000.00")},
		},
	}

	_, err := NewValuationService(oracle).Summarize(context.Background(), view)

	var oracleErr *domain.OracleUnavailableError
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, "AAPL", oracleErr.Symbol)
}

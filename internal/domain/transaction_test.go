package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionLog_AppendAssignsMonotonicSequence(t *testing.T) {
	log := NewTransactionLog()
	ts := time.Now()

	// All appended within the same instant: sequence, not timestamp, orders
	first := log.Append(Transaction{Timestamp: ts, Kind: KindDeposit, TotalAmount: decimal.NewFromInt(100)})
	second := log.Append(Transaction{Timestamp: ts, Kind: KindWithdrawal, TotalAmount: decimal.NewFromInt(40)})
	third := log.Append(Transaction{Timestamp: ts, Kind: KindDeposit, TotalAmount: decimal.NewFromInt(10)})

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
	assert.Equal(t, int64(3), third.Sequence)
	assert.Equal(t, int64(3), log.LastSequence())
	assert.Equal(t, 3, log.Len())
}

func TestTransactionLog_HistoryIsMostRecentFirst(t *testing.T) {
	log := NewTransactionLog()
	log.Append(Transaction{Kind: KindDeposit, TotalAmount: decimal.NewFromInt(1)})
	log.Append(Transaction{Kind: KindDeposit, TotalAmount: decimal.NewFromInt(2)})
	log.Append(Transaction{Kind: KindDeposit, TotalAmount: decimal.NewFromInt(3)})

	history := log.History()
	require.Len(t, history, 3)
	assert.Equal(t, int64(3), history[0].Sequence)
	assert.Equal(t, int64(2), history[1].Sequence)
	assert.Equal(t, int64(1), history[2].Sequence)
}

func TestTransactionLog_HistoryReturnsIndependentCopy(t *testing.T) {
	log := NewTransactionLog()
	log.Append(Transaction{Kind: KindDeposit, TotalAmount: decimal.NewFromInt(100)})

	history := log.History()
	history[0].TotalAmount = decimal.NewFromInt(999)
	history[0].Sequence = 42

	// Re-reading must show the original entry untouched
	fresh := log.History()
	require.Len(t, fresh, 1)
	assert.Equal(t, int64(1), fresh[0].Sequence)
	assert.True(t, fresh[0].TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestTransactionLog_RestoreResumesSequence(t *testing.T) {
	archived := []Transaction{
		{Sequence: 1, Kind: KindDeposit, TotalAmount: decimal.NewFromInt(100)},
		{Sequence: 2, Kind: KindBuy, Symbol: "AAPL", Quantity: 1, PricePerUnit: decimal.NewFromInt(150), TotalAmount: decimal.NewFromInt(150)},
	}

	log := RestoreTransactionLog(archived)
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, int64(2), log.LastSequence())

	next := log.Append(Transaction{Kind: KindDeposit, TotalAmount: decimal.NewFromInt(5)})
	assert.Equal(t, int64(3), next.Sequence)
}

func TestTransaction_IsTrade(t *testing.T) {
	assert.True(t, Transaction{Kind: KindBuy}.IsTrade())
	assert.True(t, Transaction{Kind: KindSell}.IsTrade())
	assert.False(t, Transaction{Kind: KindDeposit}.IsTrade())
	assert.False(t, Transaction{Kind: KindWithdrawal}.IsTrade())
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("aapl "))
	assert.Equal(t, "TSLA", NormalizeSymbol("  tSlA"))
	assert.Equal(t, "GOOGL", NormalizeSymbol("GOOGL"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestAccount_CloneIsDeep(t *testing.T) {
	account := NewAccount("trader123")
	account.CashBalance = decimal.NewFromInt(500)
	account.Holdings["AAPL"] = 10

	clone := account.Clone()
	clone.Holdings["AAPL"] = 99
	clone.Holdings["TSLA"] = 1

	assert.Equal(t, int64(10), account.Holdings["AAPL"])
	assert.NotContains(t, account.Holdings, "TSLA")
	assert.Equal(t, account.ID, clone.ID)
}

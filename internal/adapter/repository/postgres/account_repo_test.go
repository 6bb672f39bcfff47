package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/paperdesk-backend/internal/adapter/repository/postgres"
	"github.com/paperdesk/paperdesk-backend/internal/domain"
	"github.com/paperdesk/paperdesk-backend/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedAccount(ownerID string) *domain.Account {
	account := domain.NewAccount(ownerID)
	account.CashBalance = dec("10500.00")
	account.Holdings["AAPL"] = 10
	return account
}

func TestSaveAndLoadAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount("trader123")
	require.NoError(t, repo.SaveAccount(ctx, account))

	now := time.Now().UTC().Truncate(time.Millisecond)
	history := []domain.Transaction{
		{Sequence: 1, Timestamp: now, Kind: domain.KindDeposit, TotalAmount: dec("12000.00")},
		{Sequence: 2, Timestamp: now, Kind: domain.KindBuy, Symbol: "AAPL", Quantity: 10, PricePerUnit: dec("150.00"), TotalAmount: dec("1500.00")},
	}
	require.NoError(t, repo.AppendTransactions(ctx, account.ID, history))

	loaded, loadedHistory, err := repo.LoadAccount(ctx, "trader123")

	require.NoError(t, err)
	assert.Equal(t, account.ID, loaded.ID)
	assert.Equal(t, "trader123", loaded.OwnerID)
	assert.True(t, loaded.CashBalance.Equal(dec("10500.00")))
	assert.Equal(t, map[string]int64{"AAPL": 10}, loaded.Holdings)

	require.Len(t, loadedHistory, 2)
	assert.Equal(t, int64(1), loadedHistory[0].Sequence)
	assert.Equal(t, domain.KindDeposit, loadedHistory[0].Kind)
	assert.Empty(t, loadedHistory[0].Symbol)
	assert.True(t, loadedHistory[0].TotalAmount.Equal(dec("12000.00")))

	assert.Equal(t, int64(2), loadedHistory[1].Sequence)
	assert.Equal(t, domain.KindBuy, loadedHistory[1].Kind)
	assert.Equal(t, "AAPL", loadedHistory[1].Symbol)
	assert.Equal(t, int64(10), loadedHistory[1].Quantity)
	assert.True(t, loadedHistory[1].PricePerUnit.Equal(dec("150.00")))
}

func TestSaveAccount_UpsertRewritesHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount("trader123")
	require.NoError(t, repo.SaveAccount(ctx, account))

	// Position closed, balance moved
	account.CashBalance = dec("12100.00")
	delete(account.Holdings, "AAPL")
	require.NoError(t, repo.SaveAccount(ctx, account))

	loaded, _, err := repo.LoadAccount(ctx, "trader123")

	require.NoError(t, err)
	assert.True(t, loaded.CashBalance.Equal(dec("12100.00")))
	assert.Empty(t, loaded.Holdings)
}

func TestAppendTransactions_IdempotentOnSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount("trader123")
	require.NoError(t, repo.SaveAccount(ctx, account))

	tx := domain.Transaction{Sequence: 1, Timestamp: time.Now(), Kind: domain.KindDeposit, TotalAmount: dec("100")}
	require.NoError(t, repo.AppendTransactions(ctx, account.ID, []domain.Transaction{tx}))

	// Replaying the same sequence must not duplicate or rewrite the row
	tx.TotalAmount = dec("999")
	require.NoError(t, repo.AppendTransactions(ctx, account.ID, []domain.Transaction{tx}))

	_, history, err := repo.LoadAccount(ctx, "trader123")

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].TotalAmount.Equal(dec("100")))
}

func TestLoadAccount_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := postgres.NewAccountRepository(db)

	_, _, err := repo.LoadAccount(context.Background(), "nobody")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestListOwners(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveAccount(ctx, seedAccount("zoe")))
	require.NoError(t, repo.SaveAccount(ctx, seedAccount("amir")))

	owners, err := repo.ListOwners(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"amir", "zoe"}, owners)
}

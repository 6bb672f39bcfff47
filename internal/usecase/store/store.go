package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
	"github.com/paperdesk/paperdesk-backend/internal/usecase/ledger"
	"github.com/paperdesk/paperdesk-backend/internal/usecase/valuation"
)

// AccountStore owns the keyed collection of account ledgers, one per owner.
// It is the surrounding service layer's entry point: transports call it, it
// forwards to the owning ledger, and it archives successful mutations to the
// repository when one is configured. Archive failures are logged and never
// veto an operation — the in-memory ledger is the source of truth.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*ledger.AccountLedger
	archived map[string]int64 // owner -> highest archived sequence

	oracle        domain.PriceOracle
	valuator      *valuation.ValuationService
	repo          domain.AccountRepository
	oracleTimeout time.Duration
}

// Option configures an AccountStore.
type Option func(*AccountStore)

// WithRepository enables write-through archival and startup rehydration.
func WithRepository(repo domain.AccountRepository) Option {
	return func(s *AccountStore) { s.repo = repo }
}

// WithOracleTimeout sets the oracle timeout applied to ledgers and valuation.
func WithOracleTimeout(d time.Duration) Option {
	return func(s *AccountStore) {
		if d > 0 {
			s.oracleTimeout = d
		}
	}
}

// NewAccountStore creates an empty store backed by the given price oracle.
func NewAccountStore(oracle domain.PriceOracle, opts ...Option) *AccountStore {
	s := &AccountStore{
		accounts:      make(map[string]*ledger.AccountLedger),
		archived:      make(map[string]int64),
		oracle:        oracle,
		oracleTimeout: ledger.DefaultOracleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.valuator = valuation.NewValuationService(oracle).WithOracleTimeout(s.oracleTimeout)
	return s
}

// Open creates a new account for the owner with a positive initial deposit.
func (s *AccountStore) Open(ctx context.Context, ownerID string, initialDeposit decimal.Decimal) (domain.Account, error) {
	if ownerID == "" {
		return domain.Account{}, &domain.ValidationError{Field: "owner_id", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[ownerID]; exists {
		return domain.Account{}, domain.ErrAccountExists
	}

	led, err := ledger.NewAccountLedger(ownerID, initialDeposit, s.oracle, ledger.WithOracleTimeout(s.oracleTimeout))
	if err != nil {
		return domain.Account{}, err
	}
	s.accounts[ownerID] = led
	s.archive(ctx, led)

	return led.Snapshot(), nil
}

// Get returns the ledger for an owner.
func (s *AccountStore) Get(ownerID string) (*ledger.AccountLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	led, ok := s.accounts[ownerID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return led, nil
}

// Remove drops an owner's ledger from the store. The archive, if any, keeps
// its history.
func (s *AccountStore) Remove(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, ownerID)
	delete(s.archived, ownerID)
}

// Owners returns the sorted owner IDs of all open accounts.
func (s *AccountStore) Owners() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0, len(s.accounts))
	for owner := range s.accounts {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}

// Deposit adds funds to an owner's account.
func (s *AccountStore) Deposit(ctx context.Context, ownerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := led.Deposit(amount)
	if err != nil {
		return decimal.Zero, err
	}
	s.lockedArchive(ctx, led)
	return balance, nil
}

// Withdraw removes funds from an owner's account.
func (s *AccountStore) Withdraw(ctx context.Context, ownerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := led.Withdraw(amount)
	if err != nil {
		return decimal.Zero, err
	}
	s.lockedArchive(ctx, led)
	return balance, nil
}

// BuyShares buys shares for an owner's account.
func (s *AccountStore) BuyShares(ctx context.Context, ownerID, symbol string, quantity int64) (*ledger.BuyReceipt, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return nil, err
	}
	receipt, err := led.BuyShares(ctx, symbol, quantity)
	if err != nil {
		return nil, err
	}
	s.lockedArchive(ctx, led)
	return receipt, nil
}

// SellShares sells shares from an owner's account.
func (s *AccountStore) SellShares(ctx context.Context, ownerID, symbol string, quantity int64) (*ledger.SellReceipt, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return nil, err
	}
	receipt, err := led.SellShares(ctx, symbol, quantity)
	if err != nil {
		return nil, err
	}
	s.lockedArchive(ctx, led)
	return receipt, nil
}

// Summary computes the point-in-time portfolio summary for an owner.
func (s *AccountStore) Summary(ctx context.Context, ownerID string) (*domain.PortfolioSummary, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return nil, err
	}
	return s.valuator.Summarize(ctx, led)
}

// History returns an owner's transaction history, most recent first.
func (s *AccountStore) History(ownerID string) ([]domain.Transaction, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return nil, err
	}
	return led.History(), nil
}

// Snapshot returns a copy of an owner's account state.
func (s *AccountStore) Snapshot(ownerID string) (domain.Account, error) {
	led, err := s.Get(ownerID)
	if err != nil {
		return domain.Account{}, err
	}
	return led.Snapshot(), nil
}

// Rehydrate loads every archived account into the store. Called once at
// startup, before the store is shared.
func (s *AccountStore) Rehydrate(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	owners, err := s.repo.ListOwners(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, owner := range owners {
		account, history, err := s.repo.LoadAccount(ctx, owner)
		if err != nil {
			return err
		}
		led := ledger.Restore(*account, history, s.oracle, ledger.WithOracleTimeout(s.oracleTimeout))
		s.accounts[owner] = led
		if len(history) > 0 {
			s.archived[owner] = maxSequence(history)
		}
	}

	slog.Info("rehydrated accounts from archive", "count", len(owners))
	return nil
}

// lockedArchive takes the store lock before archiving. The per-operation
// passthroughs call it after a successful ledger mutation.
func (s *AccountStore) lockedArchive(ctx context.Context, led *ledger.AccountLedger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archive(ctx, led)
}

// archive persists the account snapshot and any not-yet-archived
// transactions. Best effort: failures are logged, the operation stands.
// Caller holds s.mu.
func (s *AccountStore) archive(ctx context.Context, led *ledger.AccountLedger) {
	if s.repo == nil {
		return
	}

	snapshot := led.Snapshot()
	if err := s.repo.SaveAccount(ctx, &snapshot); err != nil {
		slog.Warn("account archive failed", "owner", snapshot.OwnerID, "error", err)
		return
	}

	last := s.archived[snapshot.OwnerID]
	var pending []domain.Transaction
	for _, tx := range reverseToInsertion(led.History()) {
		if tx.Sequence > last {
			pending = append(pending, tx)
		}
	}
	if len(pending) == 0 {
		return
	}

	if err := s.repo.AppendTransactions(ctx, snapshot.ID, pending); err != nil {
		slog.Warn("transaction archive failed", "owner", snapshot.OwnerID, "error", err)
		return
	}
	s.archived[snapshot.OwnerID] = pending[len(pending)-1].Sequence
}

// reverseToInsertion flips a most-recent-first history into sequence order.
func reverseToInsertion(history []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(history))
	for i, tx := range history {
		out[len(history)-1-i] = tx
	}
	return out
}

func maxSequence(txs []domain.Transaction) int64 {
	var max int64
	for _, tx := range txs {
		if tx.Sequence > max {
			max = tx.Sequence
		}
	}
	return max
}

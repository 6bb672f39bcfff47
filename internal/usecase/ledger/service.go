package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
)

// DefaultOracleTimeout bounds every price oracle call so a stalled pricing
// service cannot block an account forever.
const DefaultOracleTimeout = 3 * time.Second

// BuyReceipt describes a completed share purchase.
type BuyReceipt struct {
	Symbol       string
	Quantity     int64
	PricePerUnit decimal.Decimal
	TotalCost    decimal.Decimal
}

// SellReceipt describes a completed share sale.
type SellReceipt struct {
	Symbol        string
	Quantity      int64
	PricePerUnit  decimal.Decimal
	TotalProceeds decimal.Decimal
}

// AccountLedger owns one account's cash and holdings and is their sole
// mutator. Every operation validates before it mutates: a failed call leaves
// the account and the transaction log exactly as they were. All operations
// are serialized by one mutex per ledger, so a concurrent buy and sell can
// never interleave their read-validate-mutate sequence.
type AccountLedger struct {
	mu            sync.Mutex
	account       *domain.Account
	log           *domain.TransactionLog
	oracle        domain.PriceOracle
	oracleTimeout time.Duration
}

// Option configures an AccountLedger.
type Option func(*AccountLedger)

// WithOracleTimeout overrides the bound applied to oracle lookups.
func WithOracleTimeout(d time.Duration) Option {
	return func(l *AccountLedger) {
		if d > 0 {
			l.oracleTimeout = d
		}
	}
}

// NewAccountLedger opens a new account with a positive initial deposit. The
// deposit is recorded as the account's first DEPOSIT transaction.
func NewAccountLedger(ownerID string, initialDeposit decimal.Decimal, oracle domain.PriceOracle, opts ...Option) (*AccountLedger, error) {
	if !initialDeposit.IsPositive() {
		return nil, &domain.ValidationError{Field: "initial_deposit", Reason: "must be a positive amount"}
	}

	l := &AccountLedger{
		account:       domain.NewAccount(ownerID),
		log:           domain.NewTransactionLog(),
		oracle:        oracle,
		oracleTimeout: DefaultOracleTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.account.CashBalance = initialDeposit
	l.log.Append(domain.Transaction{
		Timestamp:   time.Now(),
		Kind:        domain.KindDeposit,
		TotalAmount: initialDeposit,
	})

	return l, nil
}

// Restore rebuilds a ledger from an archived snapshot and its transaction
// history in sequence order. No validation is re-run: the archive is assumed
// to hold a state the ledger itself produced.
func Restore(account domain.Account, history []domain.Transaction, oracle domain.PriceOracle, opts ...Option) *AccountLedger {
	snapshot := account.Clone()
	l := &AccountLedger{
		account:       &snapshot,
		log:           domain.RestoreTransactionLog(history),
		oracle:        oracle,
		oracleTimeout: DefaultOracleTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OwnerID returns the immutable owner identifier.
func (l *AccountLedger) OwnerID() string {
	return l.account.OwnerID
}

// CashBalance returns the current cash balance.
func (l *AccountLedger) CashBalance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account.CashBalance
}

// Snapshot returns a deep copy of the account state.
func (l *AccountLedger) Snapshot() domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account.Clone()
}

// History returns the transaction history, most recent first.
func (l *AccountLedger) History() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.log.History()
}

// Deposit adds funds to the cash balance and returns the new balance.
func (l *AccountLedger) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.account.CashBalance = l.account.CashBalance.Add(amount)
	l.log.Append(domain.Transaction{
		Timestamp:   time.Now(),
		Kind:        domain.KindDeposit,
		TotalAmount: amount,
	})

	return l.account.CashBalance, nil
}

// Withdraw removes funds from the cash balance and returns the new balance.
// There is no partial withdrawal: the full amount must be covered.
func (l *AccountLedger) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.GreaterThan(l.account.CashBalance) {
		return decimal.Zero, &domain.InsufficientFundsError{
			Requested: amount,
			Available: l.account.CashBalance,
		}
	}

	l.account.CashBalance = l.account.CashBalance.Sub(amount)
	l.log.Append(domain.Transaction{
		Timestamp:   time.Now(),
		Kind:        domain.KindWithdrawal,
		TotalAmount: amount,
	})

	return l.account.CashBalance, nil
}

// BuyShares purchases quantity shares of symbol at the oracle's current
// price. The price is fetched exactly once and used both to charge the
// account and to record the transaction.
func (l *AccountLedger) BuyShares(ctx context.Context, symbol string, quantity int64) (*BuyReceipt, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive whole number"}
	}
	normalized := domain.NormalizeSymbol(symbol)
	if normalized == "" {
		return nil, &domain.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	price, err := l.lookupPrice(ctx, normalized)
	if err != nil {
		return nil, err
	}

	totalCost := price.Mul(decimal.NewFromInt(quantity))
	if totalCost.GreaterThan(l.account.CashBalance) {
		return nil, &domain.InsufficientFundsError{
			Requested: totalCost,
			Available: l.account.CashBalance,
		}
	}

	l.account.CashBalance = l.account.CashBalance.Sub(totalCost)
	l.account.Holdings[normalized] += quantity
	l.log.Append(domain.Transaction{
		Timestamp:    time.Now(),
		Kind:         domain.KindBuy,
		Symbol:       normalized,
		Quantity:     quantity,
		PricePerUnit: price,
		TotalAmount:  totalCost,
	})

	return &BuyReceipt{
		Symbol:       normalized,
		Quantity:     quantity,
		PricePerUnit: price,
		TotalCost:    totalCost,
	}, nil
}

// SellShares sells quantity shares of symbol at the oracle's current price.
// The owned quantity is checked before consulting the oracle. Selling the
// entire position removes the symbol from holdings.
func (l *AccountLedger) SellShares(ctx context.Context, symbol string, quantity int64) (*SellReceipt, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive whole number"}
	}
	normalized := domain.NormalizeSymbol(symbol)
	if normalized == "" {
		return nil, &domain.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	owned := l.account.HeldQuantity(normalized)
	if quantity > owned {
		return nil, &domain.InsufficientSharesError{
			Symbol:    normalized,
			Requested: quantity,
			Owned:     owned,
		}
	}

	// A held symbol was priced at buy time, but the oracle is still
	// consulted and its answer still checked.
	price, err := l.lookupPrice(ctx, normalized)
	if err != nil {
		return nil, err
	}

	totalProceeds := price.Mul(decimal.NewFromInt(quantity))
	l.account.CashBalance = l.account.CashBalance.Add(totalProceeds)
	if owned == quantity {
		delete(l.account.Holdings, normalized)
	} else {
		l.account.Holdings[normalized] = owned - quantity
	}
	l.log.Append(domain.Transaction{
		Timestamp:    time.Now(),
		Kind:         domain.KindSell,
		Symbol:       normalized,
		Quantity:     quantity,
		PricePerUnit: price,
		TotalAmount:  totalProceeds,
	})

	return &SellReceipt{
		Symbol:        normalized,
		Quantity:      quantity,
		PricePerUnit:  price,
		TotalProceeds: totalProceeds,
	}, nil
}

// lookupPrice fetches the current price for a normalized symbol under the
// ledger's oracle timeout. Callers hold the ledger mutex so the price used
// to charge is the price recorded.
func (l *AccountLedger) lookupPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, l.oracleTimeout)
	defer cancel()

	price, ok, err := l.oracle.Lookup(ctx, symbol)
	if err != nil {
		return decimal.Zero, &domain.OracleUnavailableError{Symbol: symbol, Err: err}
	}
	if !ok {
		return decimal.Zero, &domain.InvalidSymbolError{Symbol: symbol}
	}
	return price, nil
}

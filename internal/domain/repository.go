package domain

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for the account archive. The
// in-memory ledger remains the source of truth; the archive records account
// snapshots and the append-only transaction history so accounts survive a
// process restart.
type AccountRepository interface {
	// SaveAccount upserts the current account snapshot (cash and holdings)
	SaveAccount(ctx context.Context, account *Account) error

	// AppendTransactions archives transactions in sequence order. Entries
	// already archived for the account are ignored, never rewritten.
	AppendTransactions(ctx context.Context, accountID uuid.UUID, txs []Transaction) error

	// LoadAccount retrieves an archived account and its full transaction
	// history in sequence order. Returns ErrAccountNotFound if absent.
	LoadAccount(ctx context.Context, ownerID string) (*Account, []Transaction, error)

	// ListOwners returns the owner IDs of all archived accounts.
	ListOwners(ctx context.Context) ([]string, error)
}

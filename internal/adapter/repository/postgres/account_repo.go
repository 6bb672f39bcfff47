package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account archive repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// SaveAccount upserts the account snapshot and rewrites its holdings rows in
// one database transaction.
func (r *accountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	upsertQuery := `
		INSERT INTO accounts (id, owner_id, cash_balance, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET cash_balance = EXCLUDED.cash_balance, updated_at = now()
	`
	if _, err := dbTx.ExecContext(ctx, upsertQuery, account.ID, account.OwnerID, account.CashBalance.String()); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM holdings WHERE account_id = $1`, account.ID); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	insertHolding := `INSERT INTO holdings (account_id, symbol, quantity) VALUES ($1, $2, $3)`
	for symbol, quantity := range account.Holdings {
		if _, err := dbTx.ExecContext(ctx, insertHolding, account.ID, symbol, quantity); err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", symbol, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AppendTransactions archives transactions in sequence order. Rows already
// present for an (account, sequence) pair are left untouched — archived
// history is never rewritten.
func (r *accountRepository) AppendTransactions(ctx context.Context, accountID uuid.UUID, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertQuery := `
		INSERT INTO transactions (account_id, sequence, ts, kind, symbol, quantity, price_per_unit, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, sequence) DO NOTHING
	`
	for _, tx := range txs {
		var symbol sql.NullString
		var quantity sql.NullInt64
		var price sql.NullString
		if tx.IsTrade() {
			symbol = sql.NullString{String: tx.Symbol, Valid: true}
			quantity = sql.NullInt64{Int64: tx.Quantity, Valid: true}
			price = sql.NullString{String: tx.PricePerUnit.String(), Valid: true}
		}

		_, err := dbTx.ExecContext(ctx, insertQuery,
			accountID,
			tx.Sequence,
			tx.Timestamp,
			string(tx.Kind),
			symbol,
			quantity,
			price,
			tx.TotalAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", tx.Sequence, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadAccount retrieves an archived account with its holdings and full
// transaction history in sequence order.
func (r *accountRepository) LoadAccount(ctx context.Context, ownerID string) (*domain.Account, []domain.Transaction, error) {
	account := &domain.Account{Holdings: make(map[string]int64)}

	var cash string
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, cash_balance FROM accounts WHERE owner_id = $1`, ownerID)
	if err := row.Scan(&account.ID, &account.OwnerID, &cash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("failed to load account: %w", err)
	}

	balance, err := decimal.NewFromString(cash)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid archived cash balance %q: %w", cash, err)
	}
	account.CashBalance = balance

	if err := r.loadHoldings(ctx, account); err != nil {
		return nil, nil, err
	}

	history, err := r.loadTransactions(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account, history, nil
}

func (r *accountRepository) loadHoldings(ctx context.Context, account *domain.Account) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT symbol, quantity FROM holdings WHERE account_id = $1`, account.ID)
	if err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var symbol string
		var quantity int64
		if err := rows.Scan(&symbol, &quantity); err != nil {
			return fmt.Errorf("failed to scan holding: %w", err)
		}
		account.Holdings[symbol] = quantity
	}
	return rows.Err()
}

func (r *accountRepository) loadTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence, ts, kind, symbol, quantity, price_per_unit, total_amount
		FROM transactions
		WHERE account_id = $1
		ORDER BY sequence ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var history []domain.Transaction
	for rows.Next() {
		var (
			tx       domain.Transaction
			ts       time.Time
			kind     string
			symbol   sql.NullString
			quantity sql.NullInt64
			price    sql.NullString
			total    string
		)
		if err := rows.Scan(&tx.Sequence, &ts, &kind, &symbol, &quantity, &price, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Timestamp = ts
		tx.Kind = domain.TransactionKind(kind)
		if symbol.Valid {
			tx.Symbol = symbol.String
			tx.Quantity = quantity.Int64
			perUnit, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, fmt.Errorf("invalid archived price %q: %w", price.String, err)
			}
			tx.PricePerUnit = perUnit
		}

		amount, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("invalid archived amount %q: %w", total, err)
		}
		tx.TotalAmount = amount

		history = append(history, tx)
	}
	return history, rows.Err()
}

// ListOwners returns the owner IDs of all archived accounts.
func (r *accountRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT owner_id FROM accounts ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

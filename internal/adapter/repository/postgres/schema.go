package postgres

import (
	"context"
	"fmt"
)

// schema holds the archive tables. Quantities are integral; money columns
// use NUMERIC and travel through shopspring/decimal as strings.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	owner_id TEXT NOT NULL UNIQUE,
	cash_balance NUMERIC(20, 4) NOT NULL CHECK (cash_balance >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS holdings (
	account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	symbol TEXT NOT NULL,
	quantity BIGINT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (account_id, symbol)
);

CREATE TABLE IF NOT EXISTS transactions (
	account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	sequence BIGINT NOT NULL,
	ts TIMESTAMPTZ NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT,
	quantity BIGINT,
	price_per_unit NUMERIC(20, 4),
	total_amount NUMERIC(20, 4) NOT NULL CHECK (total_amount > 0),
	PRIMARY KEY (account_id, sequence)
);
`

// EnsureSchema creates the archive tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

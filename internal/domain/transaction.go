package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the type of financial event
type TransactionKind string

const (
	KindDeposit    TransactionKind = "DEPOSIT"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindBuy        TransactionKind = "BUY"
	KindSell       TransactionKind = "SELL"
)

// Transaction represents a single immutable financial event on an account.
// Sequence is the ordering authority; Timestamp is carried for display only,
// since two operations can land within the same clock tick.
type Transaction struct {
	Sequence     int64
	Timestamp    time.Time
	Kind         TransactionKind
	Symbol       string          // set for BUY/SELL only
	Quantity     int64           // set for BUY/SELL only
	PricePerUnit decimal.Decimal // set for BUY/SELL only
	TotalAmount  decimal.Decimal // cash delta magnitude, always positive
}

// IsTrade reports whether the transaction carries share fields.
func (t Transaction) IsTrade() bool {
	return t.Kind == KindBuy || t.Kind == KindSell
}

// TransactionLog is the append-only, strictly ordered record of financial
// events for one account. It performs no validation; it only stores and
// orders. Not safe for concurrent use on its own — the owning ledger's
// mutex serializes access.
type TransactionLog struct {
	seq     int64
	entries []Transaction
}

// NewTransactionLog creates an empty transaction log.
func NewTransactionLog() *TransactionLog {
	return &TransactionLog{}
}

// RestoreTransactionLog rebuilds a log from archived entries in insertion
// order. The sequence counter resumes after the highest archived value.
func RestoreTransactionLog(entries []Transaction) *TransactionLog {
	log := &TransactionLog{entries: make([]Transaction, len(entries))}
	copy(log.entries, entries)
	for _, tx := range log.entries {
		if tx.Sequence > log.seq {
			log.seq = tx.Sequence
		}
	}
	return log
}

// Append assigns the next sequence value to the transaction and stores it.
// Sequence numbers are monotonic per account and never reused.
func (l *TransactionLog) Append(tx Transaction) Transaction {
	l.seq++
	tx.Sequence = l.seq
	l.entries = append(l.entries, tx)
	return tx
}

// History returns an independent copy of all transactions ordered most-recent
// first. Callers never receive a handle to internal storage.
func (l *TransactionLog) History() []Transaction {
	out := make([]Transaction, len(l.entries))
	for i, tx := range l.entries {
		out[len(l.entries)-1-i] = tx
	}
	return out
}

// Entries returns an independent copy in insertion (sequence) order.
func (l *TransactionLog) Entries() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded transactions.
func (l *TransactionLog) Len() int {
	return len(l.entries)
}

// LastSequence returns the highest assigned sequence number, 0 if empty.
func (l *TransactionLog) LastSequence() int64 {
	return l.seq
}

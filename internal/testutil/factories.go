package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction().
//	    WithKind(model.KindDebit).
//	    WithAmount(0.25).
//	    WithCategory(model.CategoryTaxi).
//	    WithTimestamp(someTime).
//	    Build(t, db)
type TransactionBuilder struct {
	ID        string
	Kind      model.TransactionKind
	Amount    float64
	Category  model.TransactionCategory
	Timestamp time.Time
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		ID:        MakeID(),
		Kind:      model.KindCredit,
		Amount:    1.5,
		Category:  model.CategoryOther,
		Timestamp: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithKind sets the transaction kind.
func (b *TransactionBuilder) WithKind(kind model.TransactionKind) *TransactionBuilder {
	b.Kind = kind
	return b
}

// WithAmount sets the transaction amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.Amount = amount
	return b
}

// WithCategory sets the transaction category.
func (b *TransactionBuilder) WithCategory(category model.TransactionCategory) *TransactionBuilder {
	b.Category = category
	return b
}

// WithTimestamp sets the transaction timestamp. The day bucket is derived
// from it at build time.
func (b *TransactionBuilder) WithTimestamp(ts time.Time) *TransactionBuilder {
	b.Timestamp = ts
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	day := model.StartOfDay(b.Timestamp)
	createdAt := time.Now().UTC()

	query := `
		INSERT INTO ledger_transaction (id, kind, amount, category, ts, day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		string(b.Kind),
		b.Amount,
		string(b.Category),
		b.Timestamp.UTC().UnixNano(),
		day.Format("2006-01-02"),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:        b.ID,
		Kind:      b.Kind,
		Amount:    b.Amount,
		Category:  b.Category,
		Timestamp: b.Timestamp.UTC(),
		Day:       day,
		CreatedAt: createdAt,
	}
}

// Convenience functions

// CreateCredit creates a credit transaction at the given timestamp.
func CreateCredit(t *testing.T, db *sql.DB, amount float64, ts time.Time) model.Transaction {
	t.Helper()
	return NewTransaction().WithKind(model.KindCredit).WithAmount(amount).WithTimestamp(ts).Build(t, db)
}

// CreateDebit creates a debit transaction at the given timestamp.
func CreateDebit(t *testing.T, db *sql.DB, amount float64, category model.TransactionCategory, ts time.Time) model.Transaction {
	t.Helper()
	return NewTransaction().WithKind(model.KindDebit).WithAmount(amount).WithCategory(category).WithTimestamp(ts).Build(t, db)
}

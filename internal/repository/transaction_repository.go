package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
)

// TransactionRepository provides data access methods for the append-only
// ledger_transaction table. The ledger has no update or delete path; every
// mutation is an insert.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertTransaction persists a new ledger record. The transaction is
// visible to subsequent queries once this call returns without error;
// readers never observe a partially written record (single INSERT).
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO ledger_transaction (id, kind, amount, category, ts, day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		string(t.Kind),
		t.Amount,
		string(t.Category),
		t.Timestamp.UTC().UnixNano(),
		t.Day.Format("2006-01-02"),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into ledger_transaction table: %w", err)
	}

	return nil
}

// CountTransactions returns the total number of records ever appended,
// independent of any pagination window.
func (r *TransactionRepository) CountTransactions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_transaction`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger_transaction table: %w", err)
	}
	return count, nil
}

// SumAmountByKind returns the sum of amounts over records of the given kind.
// Returns 0 when no records of that kind exist.
func (r *TransactionRepository) SumAmountByKind(ctx context.Context, kind model.TransactionKind) (float64, error) {
	var total sql.NullFloat64
	query := `SELECT SUM(amount) FROM ledger_transaction WHERE kind = ?`

	err := r.db.QueryRowContext(ctx, query, string(kind)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger_transaction amounts: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}

	return total.Float64, nil
}

// ListRecentTransactions retrieves up to limit records under the ledger
// sort order: day bucket descending, then exact timestamp descending, then
// insertion order (rowid) descending as a stable tie-break.
func (r *TransactionRepository) ListRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	query := `
		SELECT id, kind, amount, category, ts, day, created_at
		FROM ledger_transaction
		ORDER BY day DESC, ts DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var kind, category, dayStr, createdAtStr string
		var tsNanos int64

		err := rows.Scan(
			&t.ID,
			&kind,
			&t.Amount,
			&category,
			&tsNanos,
			&dayStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger_transaction table results: %w", err)
		}

		t.Kind = model.TransactionKind(kind)
		t.Category = model.TransactionCategory(category)
		t.Timestamp = time.Unix(0, tsNanos).UTC()

		t.Day, err = ParseTime(dayStr)
		if err != nil || t.Day.IsZero() {
			return nil, fmt.Errorf("failed to parse day: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger_transaction table: %w", err)
	}

	return transactions, nil
}

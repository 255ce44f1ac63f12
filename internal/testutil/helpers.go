package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/repository"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewTransactionService(transactionRepo)
}

func NewTestLedgerView(t *testing.T, db *sql.DB, pageSize int) *service.LedgerView {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewLedgerView(transactionRepo, pageSize)
}

func NewTestRateCache(t *testing.T, db *sql.DB) *service.SettingRateCache {
	t.Helper()

	settingRepo := repository.NewSettingRepository(db)

	return service.NewSettingRateCache(settingRepo)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

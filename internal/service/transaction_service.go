package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/repository"
)

// TransactionService owns the append-only ledger: it constructs immutable
// records, persists them, and fans appended transactions out to
// registered listeners (e.g. the ledger view).
type TransactionService struct {
	transactionRepo *repository.TransactionRepository

	mu        sync.Mutex
	listeners []func(model.Transaction)
}

// NewTransactionService creates a new TransactionService with the provided repository dependency.
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// AddAppendListener registers a callback invoked after every successful
// single append. Listeners are called synchronously, in registration
// order, outside the service lock.
func (s *TransactionService) AddAppendListener(fn func(model.Transaction)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Append validates, constructs, and durably persists a new ledger record.
// The day bucket is derived from the timestamp here, once, and stored
// alongside the record. Storage failures are returned to the caller; the
// record is never silently dropped.
func (s *TransactionService) Append(
	ctx context.Context,
	kind model.TransactionKind,
	amount float64,
	category model.TransactionCategory,
	timestamp time.Time,
) (*model.Transaction, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrInvalidKind
	}
	if !category.Valid() {
		return nil, apperrors.ErrInvalidCategory
	}
	if amount < 0 {
		return nil, apperrors.ErrNegativeAmount
	}

	transaction := &model.Transaction{
		ID:        uuid.New().String(),
		Kind:      kind,
		Amount:    amount,
		Category:  category,
		Timestamp: timestamp.UTC(),
		Day:       model.StartOfDay(timestamp),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.notifyAppended(*transaction)

	return transaction, nil
}

// TotalCount returns the total number of records ever appended,
// independent of any pagination window.
func (s *TransactionService) TotalCount(ctx context.Context) (int, error) {
	return s.transactionRepo.CountTransactions(ctx)
}

// Balance computes credits minus debits over all durable records.
// Records with kind "unknown" are excluded from both sums. The balance is
// never derived from an in-memory window, so it reflects every appended
// record regardless of pagination state.
func (s *TransactionService) Balance(ctx context.Context) (float64, error) {
	credits, err := s.transactionRepo.SumAmountByKind(ctx, model.KindCredit)
	if err != nil {
		return 0, err
	}

	debits, err := s.transactionRepo.SumAmountByKind(ctx, model.KindDebit)
	if err != nil {
		return 0, err
	}

	return credits - debits, nil
}

// SeedSampleData bulk-appends synthetically generated records for demos
// and tests: two records per day walking backwards from today, random
// kinds and categories, amounts rounded to two decimals. Credits are
// always categorised "other". Inserts go straight to the repository;
// append listeners are not notified for bulk seeding.
func (s *TransactionService) SeedSampleData(ctx context.Context, count int) error {
	now := time.Now().UTC()
	kinds := []model.TransactionKind{model.KindCredit, model.KindDebit, model.KindUnknown}

	for i := 0; i < count; i++ {
		dayOffset := i / 2
		timestamp := now.AddDate(0, 0, -dayOffset)

		kind := kinds[rand.Intn(len(kinds))]
		category := model.CategoryOther
		if kind != model.KindCredit {
			category = model.Categories[rand.Intn(len(model.Categories))]
		}

		amount := math.Round((0.001+rand.Float64()*2.999)*100) / 100

		transaction := &model.Transaction{
			ID:        uuid.New().String(),
			Kind:      kind,
			Amount:    amount,
			Category:  category,
			Timestamp: timestamp,
			Day:       model.StartOfDay(timestamp),
			CreatedAt: now,
		}

		if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	return nil
}

// ListRecent returns up to limit records in ledger order (day bucket
// descending, timestamp descending), mapped for API responses.
func (s *TransactionService) ListRecent(ctx context.Context, limit int) ([]model.TransactionResponse, error) {
	transactions, err := s.transactionRepo.ListRecentTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		signed := t.Amount
		if t.Kind == model.KindDebit {
			signed = -signed
		}
		responses = append(responses, model.TransactionResponse{
			ID:           t.ID,
			Kind:         t.Kind,
			Amount:       t.Amount,
			SignedAmount: signed,
			Category:     t.Category,
			Timestamp:    t.Timestamp,
			Day:          t.Day.Format("2006-01-02"),
		})
	}

	return responses, nil
}

func (s *TransactionService) notifyAppended(t model.Transaction) {
	s.mu.Lock()
	listeners := make([]func(model.Transaction), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
}

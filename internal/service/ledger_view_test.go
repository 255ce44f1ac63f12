package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/testutil"
)

// drainUpdates collects every notification currently buffered on the
// subscription channel. Emissions are synchronous with the mutating call,
// so by the time the call returns the updates are already buffered.
func drainUpdates(ch <-chan service.LedgerUpdate) []service.LedgerUpdate {
	updates := []service.LedgerUpdate{}
	for {
		select {
		case u := <-ch:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestLedgerView_PerformInitialFetch(t *testing.T) {
	t.Run("empty ledger produces an empty window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		if view.SectionCount() != 0 {
			t.Errorf("Expected 0 sections, got %d", view.SectionCount())
		}
		if view.DisplayedCount() != 0 {
			t.Errorf("Expected 0 displayed records, got %d", view.DisplayedCount())
		}
	})

	t.Run("groups records into day sections, newest day and row first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)

		day1 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
		day3 := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

		// Insert out of chronological order on purpose.
		txOld := testutil.CreateCredit(t, db, 1.0, day3.Add(8*time.Hour))
		txMorning := testutil.CreateDebit(t, db, 0.5, model.CategoryTaxi, day1.Add(9*time.Hour))
		txMid := testutil.CreateCredit(t, db, 2.0, day2.Add(12*time.Hour))
		txEvening := testutil.CreateDebit(t, db, 0.25, model.CategoryRestaurant, day1.Add(20*time.Hour))

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		if view.SectionCount() != 3 {
			t.Fatalf("Expected 3 sections, got %d", view.SectionCount())
		}
		if view.DisplayedCount() != 4 {
			t.Errorf("Expected 4 displayed records, got %d", view.DisplayedCount())
		}

		// Newest day first, newest row first within the day.
		if got := view.RecordAt(0, 0).ID; got != txEvening.ID {
			t.Errorf("Expected section 0 row 0 to be the evening record, got %s", got)
		}
		if got := view.RecordAt(0, 1).ID; got != txMorning.ID {
			t.Errorf("Expected section 0 row 1 to be the morning record, got %s", got)
		}
		if got := view.RecordAt(1, 0).ID; got != txMid.ID {
			t.Errorf("Expected section 1 to hold the middle-day record, got %s", got)
		}
		if got := view.RecordAt(2, 0).ID; got != txOld.ID {
			t.Errorf("Expected section 2 to hold the oldest record, got %s", got)
		}

		if view.RowCount(0) != 2 {
			t.Errorf("Expected 2 rows in section 0, got %d", view.RowCount(0))
		}
	})

	t.Run("emits Reload", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)

		updates, unsubscribe := view.Subscribe()
		defer unsubscribe()

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		got := drainUpdates(updates)
		if len(got) != 1 || got[0].Kind != service.LedgerReload {
			t.Errorf("Expected a single Reload, got %v", got)
		}
	})
}

func TestLedgerView_LoadNextPage(t *testing.T) {
	t.Run("grows the window by one page until the ledger is exhausted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)

		base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 25; i++ {
			testutil.CreateCredit(t, db, 1.0, base.Add(-time.Duration(i)*time.Hour))
		}

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}
		if view.DisplayedCount() != 20 {
			t.Fatalf("Expected initial window of 20, got %d", view.DisplayedCount())
		}

		if err := view.LoadNextPage(context.Background()); err != nil {
			t.Fatalf("LoadNextPage() returned unexpected error: %v", err)
		}
		if view.DisplayedCount() != 25 {
			t.Errorf("Expected window of 25 after second page, got %d", view.DisplayedCount())
		}

		// Asking past the end is safe; the window is capped by the ledger.
		if err := view.LoadNextPage(context.Background()); err != nil {
			t.Fatalf("LoadNextPage() returned unexpected error: %v", err)
		}
		if view.DisplayedCount() != 25 {
			t.Errorf("Expected window to stay at 25, got %d", view.DisplayedCount())
		}
	})
}

// blockingLister serves records but parks every query until released, so
// tests can hold a load in flight deterministically. Each query snapshots
// the data when it starts; mutations made while it is parked do not leak
// into its result.
type blockingLister struct {
	mu           sync.Mutex
	transactions []model.Transaction
	release      chan struct{}
	queries      chan int
}

func (l *blockingLister) ListRecentTransactions(_ context.Context, limit int) ([]model.Transaction, error) {
	l.mu.Lock()
	snapshot := l.transactions
	l.mu.Unlock()

	l.queries <- limit
	<-l.release

	if limit > len(snapshot) {
		limit = len(snapshot)
	}
	return snapshot[:limit], nil
}

func (l *blockingLister) prepend(t model.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]model.Transaction{t}, l.transactions...)
}

func TestLedgerView_ConcurrentLoadNextPage(t *testing.T) {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	transactions := make([]model.Transaction, 6)
	for i := range transactions {
		ts := base.Add(-time.Duration(i) * time.Hour)
		transactions[i] = model.Transaction{
			ID:        testutil.MakeID(),
			Kind:      model.KindCredit,
			Amount:    1.0,
			Category:  model.CategoryOther,
			Timestamp: ts,
			Day:       model.StartOfDay(ts),
		}
	}

	lister := &blockingLister{
		transactions: transactions,
		release:      make(chan struct{}),
		queries:      make(chan int, 4),
	}
	view := service.NewLedgerView(lister, 2)

	go func() { lister.release <- struct{}{} }()
	if err := view.PerformInitialFetch(context.Background()); err != nil {
		t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
	}
	<-lister.queries

	// First load parks inside the query; the second call must be ignored
	// while it is in flight.
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- view.LoadNextPage(context.Background())
	}()
	<-lister.queries

	if err := view.LoadNextPage(context.Background()); err != nil {
		t.Fatalf("Second LoadNextPage() returned unexpected error: %v", err)
	}

	lister.release <- struct{}{}
	if err := <-firstDone; err != nil {
		t.Fatalf("First LoadNextPage() returned unexpected error: %v", err)
	}

	// The window advanced by exactly one page increment, not two.
	if view.DisplayedCount() != 4 {
		t.Errorf("Expected window of 4 after racing page loads, got %d", view.DisplayedCount())
	}
}

func TestLedgerView_AppendDuringPageLoad(t *testing.T) {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	makeTransaction := func(offset time.Duration) model.Transaction {
		ts := base.Add(offset)
		return model.Transaction{
			ID:        testutil.MakeID(),
			Kind:      model.KindCredit,
			Amount:    1.0,
			Category:  model.CategoryOther,
			Timestamp: ts,
			Day:       model.StartOfDay(ts),
		}
	}

	transactions := make([]model.Transaction, 4)
	for i := range transactions {
		transactions[i] = makeTransaction(-time.Duration(i+1) * time.Hour)
	}

	lister := &blockingLister{
		transactions: transactions,
		release:      make(chan struct{}),
		queries:      make(chan int, 4),
	}
	view := service.NewLedgerView(lister, 2)

	go func() { lister.release <- struct{}{} }()
	if err := view.PerformInitialFetch(context.Background()); err != nil {
		t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
	}
	<-lister.queries

	loadDone := make(chan error, 1)
	go func() {
		loadDone <- view.LoadNextPage(context.Background())
	}()
	<-lister.queries

	// A record lands while the page query is in flight. The parked query
	// already snapshotted the data, so its result will not contain it.
	appended := makeTransaction(time.Hour)
	lister.prepend(appended)
	view.ObserveAppend(appended)

	// Releasing the stale query must trigger a re-read rather than
	// install a window missing the appended row.
	lister.release <- struct{}{}
	<-lister.queries
	lister.release <- struct{}{}

	if err := <-loadDone; err != nil {
		t.Fatalf("LoadNextPage() returned unexpected error: %v", err)
	}

	if view.DisplayedCount() != 4 {
		t.Fatalf("Expected window of 4 records, got %d", view.DisplayedCount())
	}
	if got := view.RecordAt(0, 0); got.ID != appended.ID {
		t.Errorf("Expected the record appended mid-load to stay first in the window, got %s", got.ID)
	}
}

func TestLedgerView_ObserveAppend(t *testing.T) {
	t.Run("append into an existing day emits a batched row insert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)
		svc := testutil.NewTestTransactionService(t, db)
		svc.AddAppendListener(view.ObserveAppend)

		day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateCredit(t, db, 1.0, day.Add(9*time.Hour))
		testutil.CreateCredit(t, db, 2.0, day.Add(10*time.Hour))

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		updates, unsubscribe := view.Subscribe()
		defer unsubscribe()

		tx, err := svc.Append(context.Background(), model.KindDebit, 0.5, model.CategoryTaxi, day.Add(11*time.Hour))
		if err != nil {
			t.Fatalf("Append() returned unexpected error: %v", err)
		}

		got := drainUpdates(updates)
		want := []service.LedgerUpdate{
			{Kind: service.LedgerBeginBatch},
			{Kind: service.LedgerInsertRow, Section: 0, Row: 0},
			{Kind: service.LedgerEndBatch},
		}
		if len(got) != len(want) {
			t.Fatalf("Expected %d updates, got %d: %v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Update %d: expected %v, got %v", i, want[i], got[i])
			}
		}

		if view.RecordAt(0, 0).ID != tx.ID {
			t.Errorf("Expected appended record at (0, 0), got %s", view.RecordAt(0, 0).ID)
		}
		if view.DisplayedCount() != 3 {
			t.Errorf("Expected 3 displayed records, got %d", view.DisplayedCount())
		}
	})

	t.Run("append opening a new day emits a section insert inside the batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 20)
		svc := testutil.NewTestTransactionService(t, db)
		svc.AddAppendListener(view.ObserveAppend)

		yesterday := time.Date(2026, 1, 14, 18, 0, 0, 0, time.UTC)
		testutil.CreateCredit(t, db, 1.0, yesterday)

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		updates, unsubscribe := view.Subscribe()
		defer unsubscribe()

		_, err := svc.Append(context.Background(), model.KindCredit, 2.0, model.CategoryOther,
			time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Append() returned unexpected error: %v", err)
		}

		got := drainUpdates(updates)
		want := []service.LedgerUpdate{
			{Kind: service.LedgerBeginBatch},
			{Kind: service.LedgerInsertSection, Section: 0},
			{Kind: service.LedgerInsertRow, Section: 0, Row: 0},
			{Kind: service.LedgerEndBatch},
		}
		if len(got) != len(want) {
			t.Fatalf("Expected %d updates, got %d: %v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Update %d: expected %v, got %v", i, want[i], got[i])
			}
		}

		if view.SectionCount() != 2 {
			t.Errorf("Expected 2 sections, got %d", view.SectionCount())
		}
	})

	t.Run("append into a full window degrades to Reload and keeps the cap", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		view := testutil.NewTestLedgerView(t, db, 2)
		svc := testutil.NewTestTransactionService(t, db)
		svc.AddAppendListener(view.ObserveAppend)

		day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateCredit(t, db, 1.0, day.Add(9*time.Hour))
		testutil.CreateCredit(t, db, 2.0, day.Add(10*time.Hour))

		if err := view.PerformInitialFetch(context.Background()); err != nil {
			t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
		}

		updates, unsubscribe := view.Subscribe()
		defer unsubscribe()

		tx, err := svc.Append(context.Background(), model.KindCredit, 3.0, model.CategoryOther, day.Add(11*time.Hour))
		if err != nil {
			t.Fatalf("Append() returned unexpected error: %v", err)
		}

		got := drainUpdates(updates)
		if len(got) != 1 || got[0].Kind != service.LedgerReload {
			t.Fatalf("Expected a single Reload for a full window, got %v", got)
		}

		if view.DisplayedCount() != 2 {
			t.Errorf("Expected window to stay at cap 2, got %d", view.DisplayedCount())
		}
		if view.RecordAt(0, 0).ID != tx.ID {
			t.Errorf("Expected newest record at (0, 0) after reload, got %s", view.RecordAt(0, 0).ID)
		}
	})
}

func TestLedgerView_SectionLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	view := testutil.NewTestLedgerView(t, db, 20)

	now := time.Now().UTC()
	testutil.CreateCredit(t, db, 1.0, now)
	testutil.CreateCredit(t, db, 2.0, now.AddDate(0, 0, -1))
	old := time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)
	testutil.CreateCredit(t, db, 3.0, old)

	if err := view.PerformInitialFetch(context.Background()); err != nil {
		t.Fatalf("PerformInitialFetch() returned unexpected error: %v", err)
	}

	if view.SectionCount() != 3 {
		t.Fatalf("Expected 3 sections, got %d", view.SectionCount())
	}

	if label := view.SectionLabel(0); label != "Today" {
		t.Errorf("Expected label 'Today', got %q", label)
	}
	if label := view.SectionLabel(1); label != "Yesterday" {
		t.Errorf("Expected label 'Yesterday', got %q", label)
	}
	if label := view.SectionLabel(2); label != "Monday, June 1, 2020" {
		t.Errorf("Expected full date label, got %q", label)
	}
}

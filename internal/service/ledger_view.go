package service

import (
	"context"
	"sync"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
)

// TransactionLister supplies the sorted window query backing the view.
// Implemented by repository.TransactionRepository.
type TransactionLister interface {
	ListRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
}

// LedgerUpdateKind enumerates the change notifications emitted by the
// LedgerView as its window mutates.
type LedgerUpdateKind int

const (
	// LedgerReload replaces the consumer's entire rendered state.
	LedgerReload LedgerUpdateKind = iota

	// LedgerBeginBatch announces that a cohesive group of incremental
	// edits follows, terminated by LedgerEndBatch.
	LedgerBeginBatch

	// LedgerEndBatch announces that the current batch is complete.
	LedgerEndBatch

	// LedgerInsertRow inserts one row at (Section, Row).
	LedgerInsertRow

	// LedgerInsertSection inserts one empty section at Section.
	LedgerInsertSection
)

// LedgerUpdate is a single change notification. Row is meaningful only
// for LedgerInsertRow; Section for LedgerInsertRow and LedgerInsertSection.
type LedgerUpdate struct {
	Kind    LedgerUpdateKind
	Section int
	Row     int
}

// LedgerSection is one day bucket of the window, rows ordered newest
// timestamp first.
type LedgerSection struct {
	Day          time.Time
	Transactions []model.Transaction
}

// LedgerView maintains a windowed projection over the ledger: the first
// loadedLimit records under the sort order (day bucket descending, then
// timestamp descending), grouped into day sections. Mutations to the
// window — page growth or an observed append — are translated into the
// LedgerUpdate protocol: row and section inserts always arrive between a
// BeginBatch/EndBatch pair, and any change not expressible as pure
// insertion degrades conservatively to Reload.
//
// All state is guarded by a single mutex; accessors are safe to call
// concurrently with page loads and observed appends.
type LedgerView struct {
	transactionRepo TransactionLister
	pageSize        int

	mu          sync.Mutex
	loading     bool
	loadedLimit int
	generation  uint64
	sections    []LedgerSection

	subs   map[int]chan LedgerUpdate
	nextID int

	now func() time.Time
}

// NewLedgerView creates a view with an empty window. PerformInitialFetch
// must be called before the accessors return anything useful.
func NewLedgerView(transactionRepo TransactionLister, pageSize int) *LedgerView {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &LedgerView{
		transactionRepo: transactionRepo,
		pageSize:        pageSize,
		subs:            make(map[int]chan LedgerUpdate),
		now:             time.Now,
	}
}

// Subscribe attaches a consumer of change notifications and returns its
// channel with an unsubscribe function. Notifications are delivered in
// emission order. Channels are buffered; a consumer that falls behind may
// miss notifications and should resynchronise by re-reading the view, as
// it would for a Reload.
func (v *LedgerView) Subscribe() (<-chan LedgerUpdate, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++

	ch := make(chan LedgerUpdate, 64)
	v.subs[id] = ch

	unsubscribe := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// PerformInitialFetch loads up to one page of the most recent records and
// replaces the window with them, leaving all accessors consistent with
// that snapshot. Emits Reload.
func (v *LedgerView) PerformInitialFetch(ctx context.Context) error {
	return v.refetch(ctx, v.pageSize)
}

// LoadNextPage raises the window cap by one page and re-derives the
// sections from the enlarged window, emitting Reload. A call while a load
// is already in flight is ignored: the window advances by exactly one page
// increment no matter how many concurrent calls race. Callers are expected
// to gate on TotalCount, but over-asking is safe — the window is capped by
// what actually exists.
func (v *LedgerView) LoadNextPage(ctx context.Context) error {
	v.mu.Lock()
	limit := v.loadedLimit + v.pageSize
	v.mu.Unlock()

	return v.refetch(ctx, limit)
}

func (v *LedgerView) refetch(ctx context.Context, limit int) error {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return nil
	}
	v.loading = true
	v.mu.Unlock()

	for {
		v.mu.Lock()
		gen := v.generation
		v.mu.Unlock()

		transactions, err := v.transactionRepo.ListRecentTransactions(ctx, limit)

		v.mu.Lock()
		if err != nil {
			v.loading = false
			v.mu.Unlock()
			return err
		}

		// An append landed while the query was in flight. Its row is
		// already durable, so the snapshot is stale; re-read instead of
		// installing it and losing the row until the next reload.
		if v.generation != gen {
			v.mu.Unlock()
			continue
		}

		v.sections = buildSections(transactions)
		v.loadedLimit = limit
		v.loading = false
		v.emitLocked(LedgerUpdate{Kind: LedgerReload})
		v.mu.Unlock()
		return nil
	}
}

// ObserveAppend folds one newly appended transaction into the window.
// Register it as an append listener on the TransactionService.
//
// An append that lands inside a non-full window is described precisely:
// BeginBatch, InsertSection if the record opens a new day bucket,
// InsertRow, EndBatch. When the window is already at its cap the change is
// no longer a pure insertion (the last row falls out), so the view
// re-derives in memory and emits Reload instead.
func (v *LedgerView) ObserveAppend(t model.Transaction) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.generation++

	wasFull := v.displayedCountLocked() >= v.loadedLimit

	sectionIdx, created := v.insertSectionSlotLocked(t.Day)
	rowIdx := v.insertRowLocked(sectionIdx, t)

	if wasFull {
		v.trimLocked()
		v.emitLocked(LedgerUpdate{Kind: LedgerReload})
		return
	}

	v.emitLocked(LedgerUpdate{Kind: LedgerBeginBatch})
	if created {
		v.emitLocked(LedgerUpdate{Kind: LedgerInsertSection, Section: sectionIdx})
	}
	v.emitLocked(LedgerUpdate{Kind: LedgerInsertRow, Section: sectionIdx, Row: rowIdx})
	v.emitLocked(LedgerUpdate{Kind: LedgerEndBatch})
}

// SectionCount returns the number of day sections in the current window.
func (v *LedgerView) SectionCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sections)
}

// RowCount returns the number of rows in a section. Panics on an
// out-of-range section index: that is a programmer error, not a runtime
// condition.
func (v *LedgerView) RowCount(section int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sections[section].Transactions)
}

// RecordAt returns the transaction at (section, row) in the current
// window. Panics on out-of-range indices.
func (v *LedgerView) RecordAt(section, row int) model.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sections[section].Transactions[row]
}

// SectionLabel returns the display label for a section's day bucket:
// "Today", "Yesterday", or the full date. Panics on an out-of-range index.
func (v *LedgerView) SectionLabel(section int) string {
	v.mu.Lock()
	day := v.sections[section].Day
	v.mu.Unlock()

	today := model.StartOfDay(v.now())
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Monday, January 2, 2006")
	}
}

// DisplayedCount returns the total number of rows across all sections.
func (v *LedgerView) DisplayedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.displayedCountLocked()
}

func (v *LedgerView) displayedCountLocked() int {
	count := 0
	for _, section := range v.sections {
		count += len(section.Transactions)
	}
	return count
}

// insertSectionSlotLocked finds the section for a day bucket, creating an
// empty one at the correct descending position if none exists. Reports
// whether a section was created.
func (v *LedgerView) insertSectionSlotLocked(day time.Time) (int, bool) {
	idx := len(v.sections)
	for i, section := range v.sections {
		if section.Day.Equal(day) {
			return i, false
		}
		if section.Day.Before(day) {
			idx = i
			break
		}
	}

	v.sections = append(v.sections, LedgerSection{})
	copy(v.sections[idx+1:], v.sections[idx:])
	v.sections[idx] = LedgerSection{Day: day}
	return idx, true
}

// insertRowLocked inserts a transaction into a section keeping rows in
// timestamp-descending order. On an exact timestamp tie the new record is
// placed first, which is deterministic for a given insertion order.
func (v *LedgerView) insertRowLocked(section int, t model.Transaction) int {
	rows := v.sections[section].Transactions

	idx := len(rows)
	for i, row := range rows {
		if !row.Timestamp.After(t.Timestamp) {
			idx = i
			break
		}
	}

	rows = append(rows, model.Transaction{})
	copy(rows[idx+1:], rows[idx:])
	rows[idx] = t
	v.sections[section].Transactions = rows
	return idx
}

// trimLocked drops rows from the tail until the window fits loadedLimit,
// removing sections that become empty.
func (v *LedgerView) trimLocked() {
	for v.displayedCountLocked() > v.loadedLimit {
		last := len(v.sections) - 1
		rows := v.sections[last].Transactions
		if len(rows) <= 1 {
			v.sections = v.sections[:last]
			continue
		}
		v.sections[last].Transactions = rows[:len(rows)-1]
	}
}

func (v *LedgerView) emitLocked(update LedgerUpdate) {
	for _, ch := range v.subs {
		select {
		case ch <- update:
		default:
			// Consumer buffer full; it must resynchronise anyway.
		}
	}
}

// buildSections groups an already-sorted transaction slice (day bucket
// descending, timestamp descending) into consecutive day sections. Groups
// are never empty.
func buildSections(transactions []model.Transaction) []LedgerSection {
	sections := []LedgerSection{}
	for _, t := range transactions {
		n := len(sections)
		if n == 0 || !sections[n-1].Day.Equal(t.Day) {
			sections = append(sections, LedgerSection{Day: t.Day})
			n++
		}
		sections[n-1].Transactions = append(sections[n-1].Transactions, t)
	}
	return sections
}

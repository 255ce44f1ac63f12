package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
)

// AnalyticsService records observability events and serves them back with
// name and date-range filters. Events are kept in memory and are immutable
// once recorded.
type AnalyticsService struct {
	mu     sync.RWMutex
	events []model.AnalyticsEvent
}

// NewAnalyticsService creates an empty analytics event log.
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Track records an event. The parameter map is copied so callers cannot
// mutate a recorded event afterwards.
func (s *AnalyticsService) Track(name string, parameters map[string]string, date time.Time) {
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}

	event := model.AnalyticsEvent{
		ID:         uuid.New().String(),
		Name:       name,
		Parameters: params,
		Date:       date,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns recorded events within [start, end], inclusive. An empty
// name matches all event names.
func (s *AnalyticsService) Events(name string, start, end time.Time) []model.AnalyticsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := []model.AnalyticsEvent{}
	for _, event := range s.events {
		if event.Date.Before(start) || event.Date.After(end) {
			continue
		}
		if name != "" && event.Name != name {
			continue
		}
		filtered = append(filtered, event)
	}

	return filtered
}

// PruneOlderThan drops events recorded before the cutoff and returns the
// number of events removed. Run periodically to bound memory growth.
func (s *AnalyticsService) PruneOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	for _, event := range s.events {
		if !event.Date.Before(cutoff) {
			kept = append(kept, event)
		}
	}

	removed := len(s.events) - len(kept)
	s.events = kept
	return removed
}

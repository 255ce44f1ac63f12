package testutil

import (
	"context"
	"sync"
)

// MockRateSource is a mock implementation of service.RateSource for testing.
// It returns predefined rates instead of making actual API calls.
type MockRateSource struct {
	mu sync.Mutex
	// Rate is the value to return from GetTickerPrice
	Rate float64
	// Err is the error to return from GetTickerPrice
	Err error
	// FetchCount tracks how many times GetTickerPrice was called
	FetchCount int
}

// NewMockRateSource creates a mock source returning the given rate.
func NewMockRateSource(rate float64) *MockRateSource {
	return &MockRateSource{Rate: rate}
}

// GetTickerPrice returns the configured rate or error.
func (m *MockRateSource) GetTickerPrice(_ context.Context, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCount++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Rate, nil
}

// WithError configures the mock to fail with the specified error.
func (m *MockRateSource) WithError(err error) *MockRateSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
	return m
}

// SetRate updates the rate returned by subsequent fetches.
func (m *MockRateSource) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rate = rate
	m.Err = nil
}

// Fetches returns how many fetches the mock has served.
func (m *MockRateSource) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCount
}

// MemoryRateCache is an in-memory service.RateCache for tests that do not
// need a database.
type MemoryRateCache struct {
	mu        sync.Mutex
	rate      float64
	populated bool
	// SaveErr is returned from Save when set
	SaveErr error
	// SaveCount tracks how many times Save was called
	SaveCount int
}

// NewMemoryRateCache creates an empty in-memory cache.
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{}
}

// Save stores the rate in memory.
func (c *MemoryRateCache) Save(_ context.Context, rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SaveCount++
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.rate = rate
	c.populated = true
	return nil
}

// Load returns the stored rate. A stored zero reads back as absent, matching
// the persistent cache behavior.
func (c *MemoryRateCache) Load(_ context.Context) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.populated || c.rate == 0 {
		return 0, false
	}
	return c.rate, true
}

// Saves returns how many Save calls the cache has seen.
func (c *MemoryRateCache) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.SaveCount
}

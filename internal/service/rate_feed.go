package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// RateSource fetches the current reference rate for a symbol from an
// external source. Implemented by binance.Client.
type RateSource interface {
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}

// RateFeed polls a RateSource on a fixed interval and broadcasts observed
// rates to subscribers.
//
// On a successful fetch the rate is persisted to the RateCache and then
// published. On any fetch failure the last cached rate is republished
// instead; if the cache has never been populated, nothing is published for
// that cycle. Failures are never retried within an iteration — the next
// attempt is the next scheduled tick.
type RateFeed struct {
	source   RateSource
	cache    RateCache
	symbol   string
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	subs   map[int]chan float64
	nextID int
}

// NewRateFeed creates a feed. Intervals of zero or less are clamped to one
// second so the loop can never spin without yielding.
func NewRateFeed(source RateSource, cache RateCache, symbol string, interval time.Duration) *RateFeed {
	if interval <= 0 {
		interval = time.Second
	}
	return &RateFeed{
		source:   source,
		cache:    cache,
		symbol:   symbol,
		interval: interval,
		subs:     make(map[int]chan float64),
	}
}

// Start begins the polling loop and returns immediately. The first fetch
// is scheduled at once, not after one interval. Calling Start while the
// feed is already running is a no-op: there is never more than one active
// loop.
func (f *RateFeed) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	log.Printf("RateFeed: starting updates for %s every %s", f.symbol, f.interval)
	go f.run(ctx)
}

// Stop signals cancellation of the loop and returns without joining it.
// A fetch already in flight may complete, but its result is suppressed:
// nothing is published or cached on behalf of a stopped loop. Calling Stop
// while idle is a no-op.
func (f *RateFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel == nil {
		return
	}

	log.Printf("RateFeed: stopping updates")
	f.cancel()
	f.cancel = nil
}

// Subscribe attaches a new subscriber and returns its channel together
// with an unsubscribe function. Subscribers receive every value published
// after the moment of subscription, in publish order; there is no replay
// of history. Channels are buffered and a value is dropped for a
// subscriber whose buffer is full, so a slow subscriber cannot stall the
// polling loop.
func (f *RateFeed) Subscribe() (<-chan float64, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	ch := make(chan float64, 16)
	f.subs[id] = ch

	unsubscribe := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

func (f *RateFeed) run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.refresh(ctx)
		}
	}
}

// refresh performs one fetch-publish iteration.
func (f *RateFeed) refresh(ctx context.Context) {
	rate, err := f.source.GetTickerPrice(ctx, f.symbol)

	// The loop was cancelled while the fetch was in flight; suppress the
	// late result entirely.
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		log.Printf("RateFeed: fetch failed: %v, attempting to load from cache", err)
		cached, ok := f.cache.Load(ctx)
		if !ok {
			log.Printf("RateFeed: no cached rate available, skipping publish")
			return
		}
		log.Printf("RateFeed: publishing cached rate: %v", cached)
		f.publish(ctx, cached)
		return
	}

	if err := f.cache.Save(ctx, rate); err != nil {
		log.Printf("RateFeed: failed to cache rate: %v", err)
	}

	log.Printf("RateFeed: fetched new rate: %v", rate)
	f.publish(ctx, rate)
}

func (f *RateFeed) publish(ctx context.Context, rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	for _, ch := range f.subs {
		select {
		case ch <- rate:
		default:
			// Subscriber buffer full; drop rather than block the loop.
		}
	}
}

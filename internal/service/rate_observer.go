package service

import (
	"fmt"
	"time"
)

// RateUpdateEventName is the analytics event recorded for every rate publish.
const RateUpdateEventName = "btc_rate_update"

// AnalyticsRateObserver connects the RateFeed to the AnalyticsService:
// every published rate (live or fallback) is recorded as an analytics
// event with the formatted rate as a parameter. Keeping this wiring in a
// dedicated observer means no other component needs to know analytics
// exists.
type AnalyticsRateObserver struct {
	done        chan struct{}
	unsubscribe func()
}

// NewAnalyticsRateObserver subscribes to the feed and starts forwarding
// publishes until Close is called.
func NewAnalyticsRateObserver(feed *RateFeed, analytics *AnalyticsService) *AnalyticsRateObserver {
	updates, unsubscribe := feed.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for rate := range updates {
			analytics.Track(
				RateUpdateEventName,
				map[string]string{"rate": fmt.Sprintf("%.2f", rate)},
				time.Now(),
			)
		}
	}()

	return &AnalyticsRateObserver{done: done, unsubscribe: unsubscribe}
}

// Close detaches the observer from the feed and waits for the forwarding
// goroutine to exit.
func (o *AnalyticsRateObserver) Close() {
	o.unsubscribe()
	<-o.done
}

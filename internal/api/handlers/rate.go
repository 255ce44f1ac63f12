package handlers

import (
	"fmt"
	"net/http"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

// RateHandler handles HTTP requests for the live reference rate.
type RateHandler struct {
	feed  *service.RateFeed
	cache service.RateCache
}

// NewRateHandler creates a new RateHandler with the provided dependencies.
func NewRateHandler(feed *service.RateFeed, cache service.RateCache) *RateHandler {
	return &RateHandler{
		feed:  feed,
		cache: cache,
	}
}

// RateResponse carries a single observed rate.
type RateResponse struct {
	Rate float64 `json:"rate"`
}

// CurrentRate handles GET requests for the last observed rate. This is the
// cached value, which the feed refreshes on every successful fetch.
//
// Endpoint: GET /api/rate
// Response: 200 OK with RateResponse
// Error: 404 Not Found if no rate has ever been observed
func (h *RateHandler) CurrentRate(w http.ResponseWriter, r *http.Request) {
	rate, ok := h.cache.Load(r.Context())
	if !ok {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrRateNotCached.Error(), nil)
		return
	}

	response.RespondJSON(w, http.StatusOK, RateResponse{Rate: rate})
}

// StreamRates handles GET requests for a live rate stream, delivered as
// server-sent events. The subscription attaches at request time: the
// client receives every rate the feed publishes from then on, with no
// replay of history, until it disconnects.
//
// Endpoint: GET /api/rate/stream
// Response: 200 OK, Content-Type text/event-stream, one "data:" line per publish
func (h *RateHandler) StreamRates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.RespondError(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case rate, open := <-updates:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: {\"rate\": %.2f}\n\n", rate)
			flusher.Flush()
		}
	}
}

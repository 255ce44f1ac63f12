package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/testutil"
)

func TestAnalyticsHandler_Events(t *testing.T) {
	setupHandler := func(t *testing.T) (*AnalyticsHandler, *service.AnalyticsService) {
		t.Helper()
		analytics := service.NewAnalyticsService()
		return NewAnalyticsHandler(analytics), analytics
	}

	t.Run("returns empty array when no events exist", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/analytics/events", nil)
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.AnalyticsEvent
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d events", len(response))
		}
	})

	t.Run("filters by name and date range", func(t *testing.T) {
		handler, analytics := setupHandler(t)

		analytics.Track("btc_rate_update", map[string]string{"rate": "117290.61"},
			time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
		analytics.Track("btc_rate_update", map[string]string{"rate": "100.00"},
			time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
		analytics.Track("app_open", nil,
			time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/analytics/events", map[string]string{
			"name":  "btc_rate_update",
			"start": "2026-05-01",
			"end":   "2026-05-31",
		})
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.AnalyticsEvent
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(response))
		}
		if response[0].Parameters["rate"] != "117290.61" {
			t.Errorf("Expected the May rate event, got %v", response[0].Parameters)
		}
	})

	t.Run("rejects a malformed start date", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/analytics/events", map[string]string{
			"start": "last tuesday",
		})
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/analytics/events", map[string]string{
			"start": "2026-05-31",
			"end":   "2026-05-01",
		})
		w := httptest.NewRecorder()

		handler.Events(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

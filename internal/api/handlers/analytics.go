package handlers

import (
	"net/http"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/request"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/validation"
)

// AnalyticsHandler handles HTTP requests for the analytics event log.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the provided service dependency.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Events handles GET requests to list recorded analytics events filtered
// by name and date range.
//
// Endpoint: GET /api/analytics/events?name=&start=&end=
// Response: 200 OK with array of AnalyticsEvent
// Error: 400 Bad Request if a filter is malformed or the range is inverted
func (h *AnalyticsHandler) Events(w http.ResponseWriter, r *http.Request) {
	filters, err := request.ParseEventFilters(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	if err := validation.ValidateDateRange(filters.Start, filters.End); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filters", err.Error())
		return
	}

	events := h.analyticsService.Events(filters.Name, filters.Start, filters.End)
	response.RespondJSON(w, http.StatusOK, events)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

// seedDefaultCount matches the original demo data volume.
const seedDefaultCount = 50

// seedMaxCount bounds a single seeding request.
const seedMaxCount = 1000

// DeveloperHandler handles developer/demo utility endpoints. These routes
// are guarded by the API key middleware and are not part of the production
// contract.
type DeveloperHandler struct {
	transactionService *service.TransactionService
}

// NewDeveloperHandler creates a new DeveloperHandler with the provided service dependency.
func NewDeveloperHandler(transactionService *service.TransactionService) *DeveloperHandler {
	return &DeveloperHandler{
		transactionService: transactionService,
	}
}

// SeedResponse reports how many sample records were appended.
type SeedResponse struct {
	Seeded int `json:"seeded"`
}

// SeedSampleData handles POST requests to bulk-append synthetic
// transactions for demos and manual testing.
//
// Endpoint: POST /api/developer/seed?count=
// Response: 201 Created with SeedResponse
// Error: 400 Bad Request if count is not a positive integer within bounds
// Error: 500 Internal Server Error if seeding fails mid-way
func (h *DeveloperHandler) SeedSampleData(w http.ResponseWriter, r *http.Request) {
	count := seedDefaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > seedMaxCount {
			response.RespondError(w, http.StatusBadRequest, "invalid count", raw)
			return
		}
		count = parsed
	}

	if err := h.transactionService.SeedSampleData(r.Context(), count); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSeedData.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, SeedResponse{Seeded: count})
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/request"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/validation"
)

// TransactionHandler handles HTTP requests for ledger transaction
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the transaction service.
type TransactionHandler struct {
	transactionService *service.TransactionService
	rateCache          service.RateCache
	pageSize           int
}

// NewTransactionHandler creates a new TransactionHandler with the provided dependencies.
func NewTransactionHandler(transactionService *service.TransactionService, rateCache service.RateCache, pageSize int) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		rateCache:          rateCache,
		pageSize:           pageSize,
	}
}

// TransactionSectionResponse is one day bucket of the transaction listing.
type TransactionSectionResponse struct {
	Day          string                      `json:"day"`
	Transactions []model.TransactionResponse `json:"transactions"`
}

// ListTransactions handles GET requests to retrieve recent transactions
// grouped by day, newest day first and newest transaction first within a
// day. The optional limit query parameter caps the window (defaults to
// the configured page size).
//
// Endpoint: GET /api/transaction?limit=
// Response: 200 OK with array of TransactionSectionResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := h.pageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = parsed
	}

	transactions, err := h.transactionService.ListRecent(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	sections := []TransactionSectionResponse{}
	for _, t := range transactions {
		n := len(sections)
		if n == 0 || sections[n-1].Day != t.Day {
			sections = append(sections, TransactionSectionResponse{Day: t.Day})
			n++
		}
		sections[n-1].Transactions = append(sections[n-1].Transactions, t)
	}

	response.RespondJSON(w, http.StatusOK, sections)
}

// CreateTransaction handles POST requests to append a new ledger record.
// Records are immutable once appended; there is no update or delete
// endpoint.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (kind, amount, category, timestamp?)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the append cannot be committed
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	// Same emptiness rule as validation: a blank timestamp means "now".
	timestamp := time.Now().UTC()
	if strings.TrimSpace(req.Timestamp) != "" {
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid timestamp", err.Error())
			return
		}
	}

	transaction, err := h.transactionService.Append(
		r.Context(),
		model.TransactionKind(req.Kind),
		req.Amount,
		model.TransactionCategory(req.Category),
		timestamp,
	)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// SummaryResponse aggregates the ledger balance, the total record count,
// and the last cached reference rate. Rate is null when nothing has ever
// been cached.
type SummaryResponse struct {
	Balance    float64  `json:"balance"`
	TotalCount int      `json:"totalCount"`
	Rate       *float64 `json:"rate"`
}

// Summary handles GET requests for the ledger overview. Balance, count,
// and cached rate are gathered concurrently.
//
// Endpoint: GET /api/transaction/summary
// Response: 200 OK with SummaryResponse
// Error: 500 Internal Server Error if any aggregate query fails
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var summary SummaryResponse

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		balance, err := h.transactionService.Balance(ctx)
		summary.Balance = balance
		return err
	})

	g.Go(func() error {
		count, err := h.transactionService.TotalCount(ctx)
		summary.TotalCount = count
		return err
	})

	g.Go(func() error {
		if rate, ok := h.rateCache.Load(ctx); ok {
			summary.Rate = &rate
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

package handlers

import (
	"net/http"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/service"
)

// LedgerHandler exposes the windowed ledger view over HTTP: a snapshot of
// the current sections and an endpoint to grow the window by one page.
type LedgerHandler struct {
	view               *service.LedgerView
	transactionService *service.TransactionService
}

// NewLedgerHandler creates a new LedgerHandler with the provided dependencies.
func NewLedgerHandler(view *service.LedgerView, transactionService *service.TransactionService) *LedgerHandler {
	return &LedgerHandler{
		view:               view,
		transactionService: transactionService,
	}
}

// LedgerSectionResponse is one rendered day section of the window.
type LedgerSectionResponse struct {
	Label        string              `json:"label"`
	Day          string              `json:"day"`
	Transactions []model.Transaction `json:"transactions"`
}

// LedgerResponse is a consistent snapshot of the window state.
type LedgerResponse struct {
	Sections       []LedgerSectionResponse `json:"sections"`
	DisplayedCount int                     `json:"displayedCount"`
	TotalCount     int                     `json:"totalCount"`
}

// Window handles GET requests for the current ledger window snapshot.
//
// Endpoint: GET /api/ledger
// Response: 200 OK with LedgerResponse
// Error: 500 Internal Server Error if the total count cannot be read
func (h *LedgerHandler) Window(w http.ResponseWriter, r *http.Request) {
	total, err := h.transactionService.TotalCount(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	sections := make([]LedgerSectionResponse, 0, h.view.SectionCount())
	for i := 0; i < h.view.SectionCount(); i++ {
		rows := make([]model.Transaction, 0, h.view.RowCount(i))
		for j := 0; j < h.view.RowCount(i); j++ {
			rows = append(rows, h.view.RecordAt(i, j))
		}
		sections = append(sections, LedgerSectionResponse{
			Label:        h.view.SectionLabel(i),
			Day:          h.view.RecordAt(i, 0).Day.Format("2006-01-02"),
			Transactions: rows,
		})
	}

	response.RespondJSON(w, http.StatusOK, LedgerResponse{
		Sections:       sections,
		DisplayedCount: h.view.DisplayedCount(),
		TotalCount:     total,
	})
}

// LoadNextPage handles POST requests to grow the window by one page. The
// request is a no-op when the window already covers every record, or when
// a load is in flight.
//
// Endpoint: POST /api/ledger/page
// Response: 200 OK with LedgerResponse reflecting the grown window
// Error: 500 Internal Server Error if the page load fails
func (h *LedgerHandler) LoadNextPage(w http.ResponseWriter, r *http.Request) {
	total, err := h.transactionService.TotalCount(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	if h.view.DisplayedCount() < total {
		if err := h.view.LoadNextPage(r.Context()); err != nil {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
			return
		}
	}

	h.Window(w, r)
}

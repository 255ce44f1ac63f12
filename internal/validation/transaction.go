package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/request"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - kind: Must be one of: credit, debit, unknown
//   - amount: Must be non-negative
//   - category: Must be one of: groceries, taxi, electronics, restaurant, other
//   - timestamp: Must be RFC3339 if provided (defaults to now when empty)
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Kind) == "" {
		errors["kind"] = "kind is required"
	} else if !model.TransactionKind(req.Kind).Valid() {
		errors["kind"] = fmt.Sprintf("invalid kind: %s", req.Kind)
	}

	if strings.TrimSpace(req.Category) == "" {
		errors["category"] = "category is required"
	} else if !model.TransactionCategory(req.Category).Valid() {
		errors["category"] = fmt.Sprintf("invalid category: %s", req.Category)
	}

	if req.Amount < 0 {
		errors["amount"] = "amount must be non-negative"
	}

	if strings.TrimSpace(req.Timestamp) != "" {
		if _, err := time.Parse(time.RFC3339, req.Timestamp); err != nil {
			errors["timestamp"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateDateRange checks that start does not come after end.
func ValidateDateRange(start, end time.Time) error {
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

package model

import "time"

// TransactionKind determines how a transaction contributes to the balance.
type TransactionKind string

const (
	// KindCredit adds to the balance.
	KindCredit TransactionKind = "credit"

	// KindDebit subtracts from the balance.
	KindDebit TransactionKind = "debit"

	// KindUnknown is retained in the ledger but excluded from aggregation.
	KindUnknown TransactionKind = "unknown"
)

// Valid reports whether the kind is one of the known values.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindCredit, KindDebit, KindUnknown:
		return true
	}
	return false
}

// TransactionCategory is a display/bucketing tag with no aggregation effect.
type TransactionCategory string

const (
	CategoryGroceries   TransactionCategory = "groceries"
	CategoryTaxi        TransactionCategory = "taxi"
	CategoryElectronics TransactionCategory = "electronics"
	CategoryRestaurant  TransactionCategory = "restaurant"
	CategoryOther       TransactionCategory = "other"
)

// Categories lists all valid categories.
var Categories = []TransactionCategory{
	CategoryGroceries,
	CategoryTaxi,
	CategoryElectronics,
	CategoryRestaurant,
	CategoryOther,
}

// Valid reports whether the category is one of the known values.
func (c TransactionCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is a single immutable ledger record. Day is the transaction
// timestamp truncated to the start of its UTC calendar day; it is derived
// once at creation time and stored alongside the record because it is the
// grouping and sort key for the ledger view.
type Transaction struct {
	ID        string              `json:"id"`
	Kind      TransactionKind     `json:"kind"`
	Amount    float64             `json:"amount"`
	Category  TransactionCategory `json:"category"`
	Timestamp time.Time           `json:"timestamp"`
	Day       time.Time           `json:"day"`
	CreatedAt time.Time           `json:"createdAt,omitempty"`
}

// StartOfDay truncates t to the beginning of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TransactionResponse represents a transaction enriched for API responses.
// SignedAmount carries the display sign: debits are rendered negative.
type TransactionResponse struct {
	ID           string              `json:"id"`
	Kind         TransactionKind     `json:"kind"`
	Amount       float64             `json:"amount"`
	SignedAmount float64             `json:"signedAmount"`
	Category     TransactionCategory `json:"category"`
	Timestamp    time.Time           `json:"timestamp"`
	Day          string              `json:"day"`
}

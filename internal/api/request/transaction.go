package request

// CreateTransactionRequest is the payload for appending a ledger record.
// Timestamp is RFC3339 and optional; it defaults to the current time.
type CreateTransactionRequest struct {
	Kind      string  `json:"kind"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Timestamp string  `json:"timestamp,omitempty"`
}

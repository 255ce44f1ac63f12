package validation

import "fmt"

// Common validation errors
var (
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
)

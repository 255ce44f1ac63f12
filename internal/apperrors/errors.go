package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrRateNotCached indicates that no reference rate has ever been cached.
	ErrRateNotCached = errors.New("rate not cached")

	// ErrSettingNotFound indicates that a setting key has never been written.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidKind indicates an unknown transaction kind value.
	ErrInvalidKind = errors.New("invalid transaction kind")

	// ErrInvalidCategory indicates an unknown transaction category value.
	ErrInvalidCategory = errors.New("invalid transaction category")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToRetrieveSummary      = errors.New("failed to retrieve summary")
	ErrFailedToSeedData             = errors.New("failed to seed sample data")
)

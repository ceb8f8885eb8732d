package finance

import "errors"

// Validation errors are returned to the caller for user facing messages.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrNotLoggedIn        = errors.New("no user logged in")
)

// Persistence errors.
var (
	// ErrStorageUnavailable wraps any read or write failure of a Store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptSnapshot is returned when a persisted snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

package ports

import "errors"

// Standard application-level errors.
// Adapters and the engine wrap underlying errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Simulation Errors
	ErrContractViolation = errors.New("signal source contract violation")
	ErrUnorderedSeries   = errors.New("bar series is not sorted ascending with unique dates")

	// Database Specific Errors
	ErrDuplicateEntry = errors.New("database record already exists")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
)

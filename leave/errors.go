/*
errors.go - Error types for the leave package

ERROR CATEGORIES:
  1. Validation errors - malformed input, rejected before any deduction runs
  2. Lookup errors     - missing employee or account
  3. Conflict errors   - uniqueness violations (employee name, account key)

An insufficient balance is NOT an error anywhere in this package. Negative
remaining balances are a valid, persisted outcome.

USAGE:
  if errors.Is(err, leave.ErrInvalidInput) { ... 400 ... }
  var vErr *leave.ValidationError
  if errors.As(err, &vErr) { field := vErr.Field }
*/
package leave

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the parent of every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by stores when a unique key already exists.
	ErrConflict = errors.New("conflict")

	// ErrInactiveEmployee is returned when a deactivated employee submits leave
	// or receives a grant.
	ErrInactiveEmployee = errors.New("employee is inactive")
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// ValidationError describes input rejected at the validation boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var (
	ErrEndBeforeStart  = &ValidationError{Field: "end_date", Message: "end before start"}
	ErrMissingHalfDay  = &ValidationError{Field: "half_day", Message: "missing half-day designation"}
	ErrUnknownType     = &ValidationError{Field: "leave_type", Message: "unknown leave type"}
	ErrInvalidHalfDay  = &ValidationError{Field: "half_day", Message: "half-day must be AM or PM"}
	ErrMissingStart    = &ValidationError{Field: "start_date", Message: "start date is required"}
	ErrInvalidGrant    = &ValidationError{Field: "amount", Message: "comp grant must be between 0.5 and 5.0 in 0.5 steps"}
	ErrNegativeBase    = &ValidationError{Field: "base_days", Message: "base days cannot be negative"}
	ErrInvalidBirth    = &ValidationError{Field: "birth_code", Message: "birth code must be 6 digits (YYMMDD)"}
	ErrMissingName     = &ValidationError{Field: "name", Message: "name is required"}
	ErrInvalidYear     = &ValidationError{Field: "year", Message: "year out of range"}
	ErrMissingEmployee = &ValidationError{Field: "employee_id", Message: "employee is required"}
	ErrSpanTooLong     = &ValidationError{Field: "end_date", Message: "request spans more than 999 days"}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInactiveEmployee)
}

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

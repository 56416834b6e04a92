/*
errors.go - Centralized error taxonomy for the ledger engine

PURPOSE:
  All engine error types in one place. Every failure path surfaces a typed
  error; nothing in this package panics or crashes the process.

ERROR CATEGORIES:
  1. ValidationError - malformed/missing bill-definition fields
  2. ErrNotLoggedIn  - operation attempted without an active session
  3. ErrNotFound     - target row missing or owned by a different profile

USAGE:
  var vErr *ledger.ValidationError
  if errors.As(err, &vErr) {
      // vErr.Field names the offending field
  }

SEE ALSO:
  - service.go: Where these errors originate
  - api/handlers.go: Maps them onto the status envelope
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotLoggedIn is returned by every ledger operation invoked without
	// an active session.
	ErrNotLoggedIn = errors.New("no active profile")

	// ErrNotFound is returned when the target installment does not exist or
	// belongs to a different profile. Zero rows were affected.
	ErrNotFound = errors.New("installment not found")

	// ErrValidation is the sentinel all ValidationErrors unwrap to.
	ErrValidation = errors.New("invalid bill definition")

	// ErrDuplicateProfile is returned when a profile nome is already taken.
	ErrDuplicateProfile = errors.New("profile name already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the bill-definition field that failed validation.
// The whole batch is aborted; no partial writes happen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// rather than an engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotLoggedIn)
}

// IsNotFound reports whether the error indicates a missing or foreign row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

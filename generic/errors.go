/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation   - malformed input, surfaced as 4xx with field detail
  2. NotFound     - referenced entry/project/user does not exist
  3. Unauthorized - actor does not own (or may not act on) the entry
  4. Conflict     - mutation of an immutable entry, lost concurrent update
  5. Internal     - store or holiday lookup failure, surfaced as 5xx

USAGE:
  if errors.Is(err, generic.ErrConflict) {
      // entry is submitted or accepted
  }

SEE ALSO:
  - timesheet/records.go: Wraps these errors with entry context
  - api/handlers.go: Maps categories to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed input (bad date, missing field, bad enum).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entry, project or user doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the acting user may not touch the entry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when a mutation is not allowed in the current state.
	ErrConflict = errors.New("conflict")

	// ErrInternal marks unexpected store or collaborator failures.
	ErrInternal = errors.New("internal error")

	// ErrConcurrentModification is returned when optimistic locking detects a conflict.
	ErrConcurrentModification = fmt.Errorf("concurrent modification detected: %w", ErrConflict)

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// ValidationErrors collects several field failures.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// Add appends a failure and returns the updated list.
func (v ValidationErrors) Add(field, message string) ValidationErrors {
	return append(v, NewFieldError(field, message))
}

// OrNil returns nil when nothing was collected.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Fields flattens field failures into a map for API responses.
func Fields(err error) map[string]string {
	out := make(map[string]string)
	var many ValidationErrors
	if errors.As(err, &many) {
		for _, fe := range many {
			out[fe.Field] = fe.Message
		}
		return out
	}
	var one *FieldError
	if errors.As(err, &one) && one.Field != "" {
		out[one.Field] = one.Message
	}
	return out
}

// NotFoundError names what was missing.
type NotFoundError struct {
	Kind string // "timesheet", "project", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InternalError wraps an unexpected failure from a collaborator.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *InternalError) Unwrap() []error { return []error{ErrInternal, e.Err} }

// Internal wraps err unless it already carries a taxonomy category.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if Categorized(err) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// Categorized reports whether err already maps to one of the taxonomy sentinels.
func Categorized(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInternal)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to the caller's input or rights.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// SortedFields returns the field names of a validation error in stable order.
func SortedFields(err error) []string {
	fields := Fields(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

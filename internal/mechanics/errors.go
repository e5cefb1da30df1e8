package mechanics

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single domain-validation violation.
//
// Validation never raises mid-walk: every violation found is accumulated
// into a ValidationError so a caller (typically a form surface) can report
// all problems in one pass.
type FieldError struct {
	// Field names the offending field, e.g. "abilities.dexterity".
	Field string `json:"field"`

	// Code identifies the violation category.
	Code FieldErrorCode `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// FieldErrorCode categorizes validation violations.
type FieldErrorCode string

const (
	// ErrCodeOutOfRange indicates a value outside its legal bounds.
	ErrCodeOutOfRange FieldErrorCode = "OUT_OF_RANGE"

	// ErrCodeNegative indicates a value that must be non-negative.
	ErrCodeNegative FieldErrorCode = "NEGATIVE"

	// ErrCodeExceedsMaximum indicates current exceeding its maximum.
	ErrCodeExceedsMaximum FieldErrorCode = "EXCEEDS_MAXIMUM"
)

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// ValidationError carries the ordered, exhaustive list of violations found
// in one validation pass.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// collect returns nil when no violations were found, otherwise a
// ValidationError holding them in discovery order.
func collect(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

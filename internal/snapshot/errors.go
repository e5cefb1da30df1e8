package snapshot

import (
	"errors"
	"fmt"
)

// ErrorCode classifies structural snapshot failures. Unlike domain
// validation, these abort the operation with a single coded error.
type ErrorCode string

const (
	// ErrCodeChecksumMismatch means a replayed patch produced a state whose
	// checksum disagrees with the patch's declared checksum.
	ErrCodeChecksumMismatch ErrorCode = "CHECKSUM_MISMATCH"

	// ErrCodeNoMigrationPath means the migration registry has no chain of
	// single-step migrations from the snapshot's version to current.
	ErrCodeNoMigrationPath ErrorCode = "NO_MIGRATION_PATH"

	// ErrCodeMalformedSnapshot means the snapshot bytes or document shape
	// could not be parsed into the aggregate.
	ErrCodeMalformedSnapshot ErrorCode = "MALFORMED_SNAPSHOT"

	// ErrCodeUnknownPath means a patch change addressed a location that
	// does not exist in the state being patched.
	ErrCodeUnknownPath ErrorCode = "UNKNOWN_PATH"
)

// Error is a coded structural snapshot error.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("snapshot: %s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// IsChecksumMismatch reports whether err is a checksum-mismatch rejection.
func IsChecksumMismatch(err error) bool {
	return hasCode(err, ErrCodeChecksumMismatch)
}

// IsNoMigrationPath reports whether err is a missing-migration failure.
func IsNoMigrationPath(err error) bool {
	return hasCode(err, ErrCodeNoMigrationPath)
}

// IsMalformedSnapshot reports whether err is a parse/shape failure.
func IsMalformedSnapshot(err error) bool {
	return hasCode(err, ErrCodeMalformedSnapshot)
}

// IsUnknownPath reports whether err is a patch path-resolution failure.
func IsUnknownPath(err error) bool {
	return hasCode(err, ErrCodeUnknownPath)
}

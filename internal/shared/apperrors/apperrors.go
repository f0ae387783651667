package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports every violated input field in one failure.
// The operation is never attempted against storage when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "please fix: " + strings.Join(e.Fields, ", ")
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// SequenceError reports a state-machine precondition violation, such as
// an odometer reading below the driver's recorded floor or a transition
// attempted out of order. The caller corrects input and retries; nothing
// is persisted.
type SequenceError struct {
	Msg string
}

func (e *SequenceError) Error() string { return e.Msg }

func NewSequenceError(format string, args ...interface{}) *SequenceError {
	return &SequenceError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports an optimistic-concurrency failure: the record
// version the caller observed is no longer current.
type ConflictError struct {
	Expected int64
	Actual   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record was modified concurrently (expected version %d, found %d)", e.Expected, e.Actual)
}

// CheckError maps the shared error taxonomy to an HTTP status. Domain
// sentinels are mapped by the handlers that know them.
func CheckError(err error) int {
	var ve *ValidationError
	var se *SequenceError
	var ce *ConflictError

	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		return http.StatusConflict
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package domain

import "errors"

var (
	ErrNotFound          = errors.New("duty not found")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrDriverUnavailable = errors.New("driver is not available for dispatch")
	ErrForbidden         = errors.New("forbidden action")
)

package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Directory errors
	ErrSourceUnavailable = errors.New("record source unavailable")
	ErrInvalidPageSize   = errors.New("page size must be at least 1")
	ErrInvalidPageIndex  = errors.New("page index must not be negative")

	// Reports and chat errors
	ErrInvalidRange = errors.New("invalid report date range")
	ErrEmptyMessage = errors.New("message must not be empty")
)

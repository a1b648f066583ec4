package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/dashboard/internal/models"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
)

// writeServiceError maps a service error onto the API error body
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, models.ErrEmptyMessage),
		errors.Is(err, models.ErrInvalidPageSize),
		errors.Is(err, models.ErrInvalidPageIndex),
		errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrSourceUnavailable):
		pkghttp.WriteServiceUnavailable(w, "User directory is temporarily unavailable")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// writeValidationError reports a failed request field, or a plain 400 for anything else
func writeValidationError(w http.ResponseWriter, err error) {
	var fe *FieldError
	if errors.As(err, &fe) {
		pkghttp.WriteInvalidParameter(w, fe.Field, fe.Message)
		return
	}
	pkghttp.WriteBadRequest(w, err.Error())
}

package api

import (
	"errors"
	"net/http"

	"github.com/taskplanner/planner-api/internal/api/shared"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/service"
	"github.com/taskplanner/planner-api/internal/service/auth"
	"github.com/taskplanner/planner-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidTimezone):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrRealtimeDisabled):
		return http.StatusNotFound

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.As(err, &verr):
		return "Validation error: " + verr.Error()

	case errors.Is(err, domain.ErrInvalidPriority):
		return "Validation error: priority must be one of High, Medium, Low"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, errInvalidBody):
		return "Invalid request format"

	case errors.Is(err, errInvalidTimezone):
		return "Invalid timezone"

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrRealtimeDisabled):
		return "Realtime subscriptions are disabled"

	case errors.Is(err, service.ErrStoreUnavailable), errors.Is(err, store.ErrUnavailable):
		return "Task store unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

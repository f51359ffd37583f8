package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
)

var (
	errInvalidBody     = errors.New("invalid request body")
	errInvalidTimezone = errors.New("invalid timezone")
)

// datetimeLayouts are tried in order. Layouts without a zone are read in the
// handler's location, which matches what an HTML datetime-local input sends.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parseDatetime reads a client supplied datetime. An empty string yields nil.
func parseDatetime(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for i, layout := range datetimeLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, domain.NewValidationError("datetime", fmt.Sprintf("has invalid format %q", s), domain.ErrValidation)
}

// parseLocation resolves the tz query parameter, falling back to def.
func parseLocation(r *http.Request, def *time.Location) (*time.Location, error) {
	name := strings.TrimSpace(r.URL.Query().Get("tz"))
	if name == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidTimezone, name)
	}
	return loc, nil
}

// isAll reports whether a filter value means "no filter".
func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

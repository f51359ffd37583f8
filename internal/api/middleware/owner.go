package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskplanner/planner-api/internal/api/shared"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/redact"
	"github.com/taskplanner/planner-api/internal/service/auth"
)

// OwnerHeader is the header naming the owner when tokens are not required.
const OwnerHeader = "X-User-ID"

// OwnerQueryParam is the query parameter naming the owner when tokens are not required.
const OwnerQueryParam = "userId"

// OwnerMiddleware resolves whose tasks a request operates on.
type OwnerMiddleware struct {
	jwtService auth.JWTService
}

// NewOwnerMiddleware creates the middleware. With a nil jwtService the owner
// is taken from the request itself; otherwise a bearer token is required and
// its subject is the owner.
func NewOwnerMiddleware(jwtService auth.JWTService) *OwnerMiddleware {
	return &OwnerMiddleware{jwtService: jwtService}
}

// Resolve stores a shared.Owner in the request context.
func (m *OwnerMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var owner shared.Owner
		if m.jwtService != nil {
			var ok bool
			owner, ok = m.authenticate(w, r)
			if !ok {
				return
			}
		} else {
			owner = ownerFromRequest(r)
		}

		ctx := shared.SetOwner(r.Context(), owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *OwnerMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (shared.Owner, bool) {
	token, problem := bearerToken(r)
	if problem != "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, problem)
		return shared.Owner{}, false
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrMissingSubject),
			errors.Is(err, auth.ErrMissingToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		default:
			logger.FromContext(r.Context()).Error("failed to validate token",
				slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return shared.Owner{}, false
	}

	return shared.Owner{ID: claims.Subject, Source: shared.OwnerFromToken}, true
}

// bearerToken extracts the token from the Authorization header or, for
// websocket upgrades that cannot set headers from a browser, the
// "access_token" query parameter. A non-empty second result is the message
// to return to the client.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if token := r.URL.Query().Get("access_token"); token != "" && isUpgrade(r) {
			return token, ""
		}
		return "", "Authorization header required"
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "Invalid authorization format"
	}
	return parts[1], ""
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// ownerFromRequest applies the unauthenticated precedence: query parameter,
// then header, else anonymous. Handlers may still take the owner from a
// create body when the source is anonymous.
func ownerFromRequest(r *http.Request) shared.Owner {
	if id := strings.TrimSpace(r.URL.Query().Get(OwnerQueryParam)); id != "" {
		return shared.Owner{ID: id, Source: shared.OwnerFromQuery}
	}
	if id := strings.TrimSpace(r.Header.Get(OwnerHeader)); id != "" {
		return shared.Owner{ID: id, Source: shared.OwnerFromHeader}
	}
	return shared.Owner{Source: shared.OwnerFromAnonymous}
}

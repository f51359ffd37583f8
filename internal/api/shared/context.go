package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// OwnerContextKey is the context key for the resolved task owner
	OwnerContextKey ContextKey = "owner"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// OwnerSource records where the owner of a request came from.
type OwnerSource string

// Owner sources, strongest first.
const (
	OwnerFromToken     OwnerSource = "token"
	OwnerFromQuery     OwnerSource = "query"
	OwnerFromHeader    OwnerSource = "header"
	OwnerFromBody      OwnerSource = "body"
	OwnerFromAnonymous OwnerSource = "anonymous"
)

// Owner identifies whose tasks a request operates on.
type Owner struct {
	ID     string
	Source OwnerSource
}

// Authenticated reports whether the owner was proven by a token.
func (o Owner) Authenticated() bool {
	return o.Source == OwnerFromToken
}

// SetOwner adds the resolved owner to the context.
func SetOwner(ctx context.Context, owner Owner) context.Context {
	return context.WithValue(ctx, OwnerContextKey, owner)
}

// GetOwner retrieves the owner from the context. Requests that never passed
// owner resolution belong to the anonymous owner.
func GetOwner(ctx context.Context) Owner {
	owner, ok := ctx.Value(OwnerContextKey).(Owner)
	if !ok {
		return Owner{Source: OwnerFromAnonymous}
	}
	return owner
}

// SetTraceID adds a trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random 32-character hex trace ID. If crypto/rand
// fails it falls back to a random UUID, never a static value.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate secure random trace ID",
			slog.String("error", err.Error()),
			slog.String("fallback", "uuid"))
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}

package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey struct{}

var requestIDKey ctxKey

// GenerateRequestID creates a fresh ID for correlating a request's log lines.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID carried by the context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// FromContext returns the default logger, annotated with the request ID
// when the context carries one.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := RequestIDFromContext(ctx); ok {
		return slog.Default().With(AttrKeyRequestID, id)
	}
	return slog.Default()
}

package log

import (
	"context"

	"github.com/rs/zerolog"
)

// RequestIDField is the log field carrying the request id.
const RequestIDField = "request_id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Tagged tags logger with the request id in ctx, if any.
func Tagged(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	id := RequestID(ctx)
	if id == "" {
		return logger
	}
	return logger.With().Str(RequestIDField, id).Logger()
}

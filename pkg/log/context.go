package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger returns a context carrying logger; Ctx on the result yields it
// back.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithSession stamps the transport session ID onto the context logger.
// Everything logged downstream of the WebSocket gate carries it.
func WithSession(ctx context.Context, sessionID string) context.Context {
	logger := Ctx(ctx).With().Str(FieldSessionID, sessionID).Logger()
	return WithLogger(ctx, logger)
}

// Ctx returns the logger carried by ctx. A nil ctx or one without a logger
// falls back to the global logger.
func Ctx(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}

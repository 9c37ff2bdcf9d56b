package logger

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey is the private context key for the request-scoped logger.
type loggerKey struct{}

// ContextWithLogger returns a context carrying the given logger,
// typically the request logger enriched with a request id.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in the context, or a no-op
// logger when none is set. Never returns nil.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

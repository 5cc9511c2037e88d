package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// With stores a child logger carrying extra fields in the context.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey, From(ctx).With(fields...))
}

// From returns the context logger, or the process-wide one when none is set.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

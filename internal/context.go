package internal

import (
	"context"
	"time"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// ContextWithUserID stores the authenticated user's ID for log enrichment
// and audit writes further down the call chain.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithTimeout bounds an operation, falling back to 5 seconds when the caller
// passes a zero or negative duration.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

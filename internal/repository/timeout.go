package repository

import (
	"context"
	"time"
)

// timeoutFunc derives a bounded context for one query.
type timeoutFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// newTimeoutFunc builds the per-query timeout wrapper. A non-positive
// timeout leaves contexts untouched; expiry of a bounded context surfaces
// from the driver as an ordinary query error.
func newTimeoutFunc(timeout time.Duration) timeoutFunc {
	if timeout <= 0 {
		return func(ctx context.Context) (context.Context, context.CancelFunc) {
			return ctx, func() {}
		}
	}
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, timeout)
	}
}

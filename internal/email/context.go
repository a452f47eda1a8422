package email

import (
	"context"
	"time"
)

// newEmailContext bounds a background send by timeout. The request that
// triggered it usually finishes first, so its cancellation is not inherited.
func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

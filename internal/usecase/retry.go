package usecase

import "context"

// withRetry runs op through r, or once when no retrier is configured.
func withRetry(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FundsTransfer moves money from a linked bank account into the savings pool.
// It either succeeds or returns an error; it is not assumed to be idempotent, so the
// reference is passed along for rails that can deduplicate on it.
type FundsTransfer interface {
	Transfer(ctx context.Context, credential string, amount decimal.Decimal, reference string) error
}

// BatchLock keeps two deduction batches from running at the same time.
type BatchLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// IdempotencyInFlight is the stored value of a key whose first request has not finished.
const IdempotencyInFlight = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete drops a key so the request can be retried.
	Delete(ctx context.Context, key string) error
}

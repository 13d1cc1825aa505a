package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultTransferTimeout bounds a single payment-rail call.
	DefaultTransferTimeout = 30 * time.Second

	// DefaultBatchSize is the number of due schedules fetched per page.
	DefaultBatchSize = 100

	// DefaultBatchLockTTL bounds how long a crashed run can block the next one.
	DefaultBatchLockTTL = 15 * time.Minute

	// BatchLockKey names the lock held while a deduction batch runs.
	BatchLockKey = "deductions:batch"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

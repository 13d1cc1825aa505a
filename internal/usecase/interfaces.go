package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
)

// WalletRepository defines data access for wallets.
// Balance changes go through IncrementBalance only.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetForUser(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	GetForUpdate(ctx context.Context, tx Transaction, userID, walletID string) (*domain.Wallet, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error)
	// IncrementBalance applies current_amount = current_amount + delta in the store and
	// returns the new balance.
	IncrementBalance(ctx context.Context, tx Transaction, walletID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	UpdateLock(ctx context.Context, tx Transaction, walletID string, lock WalletLockUpdate) error
}

// WalletLockUpdate carries the lock columns of a wallet.
type WalletLockUpdate struct {
	IsLocked          bool
	TargetDate        *time.Time
	PenaltyPercentage decimal.Decimal
	UpdatedAt         time.Time
}

// BankAccountRepository defines read access for linked bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.LinkedBankAccount) error
	GetFirstActiveByUser(ctx context.Context, userID string) (*domain.LinkedBankAccount, error)
}

// ScheduleRepository defines data access for auto-deduction schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, tx Transaction, schedule *domain.AutoDeductionSchedule) error
	GetForUser(ctx context.Context, userID, scheduleID string) (*domain.AutoDeductionSchedule, error)
	// GetForUpdate reads the schedule and holds its row lock until tx ends, so a running
	// batch cannot advance it underneath an edit.
	GetForUpdate(ctx context.Context, tx Transaction, userID, scheduleID string) (*domain.AutoDeductionSchedule, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error)
	Update(ctx context.Context, tx Transaction, schedule *domain.AutoDeductionSchedule) error
	Delete(ctx context.Context, userID, scheduleID string) error

	// ListDue returns active schedules with next_due_date <= now ordered oldest-due first,
	// starting strictly after the (afterDue, afterID) cursor.
	ListDue(ctx context.Context, now time.Time, cursor DueCursor, limit int) ([]*domain.DueSchedule, error)
	// ClaimDue locks the schedule row if it is still active and due. A row held by
	// another transaction or no longer due yields ok=false.
	ClaimDue(ctx context.Context, tx Transaction, scheduleID string, now time.Time) (schedule *domain.AutoDeductionSchedule, ok bool, err error)
	AdvanceDueDate(ctx context.Context, tx Transaction, scheduleID string, next, updatedAt time.Time) error

	ListUpcoming(ctx context.Context, until time.Time, limit int) ([]*domain.UpcomingSchedule, error)
	Stats(ctx context.Context, now time.Time) (*domain.ScheduleStats, error)
}

// DueCursor is a keyset position in the due-schedule ordering.
type DueCursor struct {
	AfterDue time.Time
	AfterID  string
}

// RoundUpRepository defines data access for round-up records.
type RoundUpRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.RoundUpRecord) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error)
	SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error)
}

// LedgerTransactionRepository defines data access for ledger transactions.
type LedgerTransactionRepository interface {
	// Insert writes the row unless its external id already exists, in which case it
	// reports inserted=false and writes nothing.
	Insert(ctx context.Context, tx Transaction, txn *domain.LedgerTransaction) (inserted bool, err error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.LedgerTransaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error)
	SumByWalletAndCategory(ctx context.Context, walletID, category string) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Retrier re-runs an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/metrics"
)

// LockUseCase drives the wallet lock state machine.
type LockUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txnRepo    LedgerTransactionRepository
	outboxRepo OutboxRepository
	retrier    Retrier
	idGen      IDGenerator
	clock      Clock
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewLockUseCase creates a new LockUseCase.
func NewLockUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo LedgerTransactionRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	idGen IDGenerator,
	clock Clock,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *LockUseCase {
	return &LockUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		outboxRepo: outboxRepo,
		retrier:    retrier,
		idGen:      idGen,
		clock:      clock,
		metrics:    metrics,
		logger:     logger.With().Str("component", "lock").Logger(),
	}
}

// LockInput represents input for locking a wallet.
type LockInput struct {
	UserID     string
	WalletID   string
	TargetDate time.Time
	// PenaltyPercentage defaults to 10 when nil.
	PenaltyPercentage *decimal.Decimal
}

// Lock locks a wallet until TargetDate. Locking an already locked wallet may extend the
// target date or raise the penalty but never relax either.
func (uc *LockUseCase) Lock(ctx context.Context, input LockInput) (*domain.Wallet, error) {
	penalty := domain.DefaultPenaltyPercentage
	if input.PenaltyPercentage != nil {
		penalty = *input.PenaltyPercentage
	}

	if err := domain.ValidateLock(input.TargetDate, penalty, uc.clock.Now()); err != nil {
		return nil, err
	}

	target := input.TargetDate.UTC()

	var locked *domain.Wallet
	err := withRetry(ctx, uc.retrier, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		wallet, err := uc.walletRepo.GetForUpdate(txCtx, tx, input.UserID, input.WalletID)
		if err != nil {
			return err
		}

		if wallet.IsLocked && wallet.TargetDate != nil {
			if target.Before(*wallet.TargetDate) || penalty.LessThan(wallet.PenaltyPercentage) {
				return domain.ErrLockWeakening
			}
		}

		now := uc.clock.Now().UTC()
		if err := uc.walletRepo.UpdateLock(txCtx, tx, wallet.ID, WalletLockUpdate{
			IsLocked:          true,
			TargetDate:        &target,
			PenaltyPercentage: penalty,
			UpdatedAt:         now,
		}); err != nil {
			return err
		}

		event, err := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeWallet, wallet.ID, domain.EventTypeWalletLocked,
			domain.WalletLockedEvent{
				WalletID:          wallet.ID,
				UserID:            wallet.UserID,
				TargetDate:        target.Format(time.RFC3339),
				PenaltyPercentage: penalty.String(),
			}, now)
		if err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		wallet.IsLocked = true
		wallet.TargetDate = &target
		wallet.PenaltyPercentage = penalty
		wallet.UpdatedAt = now
		locked = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveLock()
	uc.logger.Info().
		Str("wallet_id", locked.ID).
		Time("target_date", target).
		Str("penalty_percentage", penalty.String()).
		Msg("wallet locked")

	return locked, nil
}

// Unlock unlocks a wallet. Before the target date the penalty is deducted from the
// balance and recorded as a ledger transaction in the same commit.
func (uc *LockUseCase) Unlock(ctx context.Context, userID, walletID string) (*domain.UnlockResult, error) {
	var result *domain.UnlockResult
	err := withRetry(ctx, uc.retrier, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		wallet, err := uc.walletRepo.GetForUpdate(txCtx, tx, userID, walletID)
		if err != nil {
			return err
		}

		now := uc.clock.Now().UTC()
		early := wallet.IsEarlyWithdrawal(now)
		penalty := wallet.PenaltyAt(now)
		balance := wallet.CurrentAmount

		if early && penalty.IsPositive() {
			balance, err = uc.walletRepo.IncrementBalance(txCtx, tx, wallet.ID, penalty.Neg(), now)
			if err != nil {
				return err
			}

			walletRef := wallet.ID
			if _, err := uc.txnRepo.Insert(txCtx, tx, &domain.LedgerTransaction{
				ID:          uc.idGen.Generate(),
				UserID:      wallet.UserID,
				WalletID:    &walletRef,
				ExternalID:  domain.PenaltyExternalID(wallet.ID, now),
				Amount:      penalty.Neg(),
				Description: "Early withdrawal penalty for " + wallet.Name,
				Category:    domain.CategoryEarlyWithdrawalPenalty,
				OccurredAt:  now,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		// Target date and penalty stay on the row so the history of the lock is kept.
		if err := uc.walletRepo.UpdateLock(txCtx, tx, wallet.ID, WalletLockUpdate{
			IsLocked:          false,
			TargetDate:        wallet.TargetDate,
			PenaltyPercentage: wallet.PenaltyPercentage,
			UpdatedAt:         now,
		}); err != nil {
			return err
		}

		event, err := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeWallet, wallet.ID, domain.EventTypeWalletUnlocked,
			domain.WalletUnlockedEvent{
				WalletID:      wallet.ID,
				UserID:        wallet.UserID,
				Early:         early,
				PenaltyAmount: penalty.String(),
				BalanceAfter:  balance.String(),
			}, now)
		if err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		wallet.IsLocked = false
		wallet.CurrentAmount = balance
		wallet.UpdatedAt = now
		result = &domain.UnlockResult{
			Wallet:        wallet,
			Early:         early,
			PenaltyAmount: penalty,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveUnlock(result.Early, result.PenaltyAmount)
	uc.logger.Info().
		Str("wallet_id", walletID).
		Bool("early", result.Early).
		Str("penalty_amount", result.PenaltyAmount.String()).
		Msg("wallet unlocked")

	return result, nil
}

// Status reports the lock status of a wallet without changing it.
func (uc *LockUseCase) Status(ctx context.Context, userID, walletID string) (*domain.LockStatus, error) {
	wallet, err := uc.walletRepo.GetForUser(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	status := wallet.StatusAt(uc.clock.Now())
	return &status, nil
}

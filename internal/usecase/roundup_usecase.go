package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/metrics"
)

// RoundUpUseCase posts spare-change round-ups into wallets.
type RoundUpUseCase struct {
	txManager   TransactionManager
	walletRepo  WalletRepository
	roundUpRepo RoundUpRepository
	txnRepo     LedgerTransactionRepository
	outboxRepo  OutboxRepository
	retrier     Retrier
	idGen       IDGenerator
	clock       Clock
	defaultUnit decimal.Decimal
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// RoundUpDeps groups the collaborators of RoundUpUseCase.
type RoundUpDeps struct {
	TxManager   TransactionManager
	WalletRepo  WalletRepository
	RoundUpRepo RoundUpRepository
	TxnRepo     LedgerTransactionRepository
	OutboxRepo  OutboxRepository
	Retrier     Retrier
	IDGen       IDGenerator
	Clock       Clock
	// DefaultUnit is used when a request does not name a unit. Zero means 1.00.
	DefaultUnit decimal.Decimal
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// NewRoundUpUseCase creates a new RoundUpUseCase.
func NewRoundUpUseCase(deps RoundUpDeps) *RoundUpUseCase {
	unit := deps.DefaultUnit
	if unit.LessThanOrEqual(decimal.Zero) {
		unit = domain.DefaultRoundUpUnit
	}

	return &RoundUpUseCase{
		txManager:   deps.TxManager,
		walletRepo:  deps.WalletRepo,
		roundUpRepo: deps.RoundUpRepo,
		txnRepo:     deps.TxnRepo,
		outboxRepo:  deps.OutboxRepo,
		retrier:     deps.Retrier,
		idGen:       deps.IDGen,
		clock:       deps.Clock,
		defaultUnit: unit,
		metrics:     deps.Metrics,
		logger:      deps.Logger.With().Str("component", "roundup").Logger(),
	}
}

// PostRoundUpInput represents input for posting a round-up.
type PostRoundUpInput struct {
	UserID         string
	WalletID       string
	OriginalAmount decimal.Decimal
	// Unit is the rounding step. Zero selects the configured default.
	Unit           decimal.Decimal
	TransactionRef *string
}

// PostRoundUpResult is a committed round-up and the wallet balance after it.
type PostRoundUpResult struct {
	Record  *domain.RoundUpRecord
	Balance decimal.Decimal
}

// PostRoundUp rounds OriginalAmount up to the next multiple of the unit and credits the
// difference to the wallet. The record and the balance increment commit together.
func (uc *RoundUpUseCase) PostRoundUp(ctx context.Context, input PostRoundUpInput) (*PostRoundUpResult, error) {
	unit := uc.unitOrDefault(input.Unit)

	roundUp, err := domain.ComputeRoundUp(input.OriginalAmount, unit)
	if err != nil {
		if errors.Is(err, domain.ErrNoRoundUpNeeded) {
			uc.metrics.ObserveRoundUpSkipped()
		}
		return nil, err
	}

	var result *PostRoundUpResult
	err = withRetry(ctx, uc.retrier, func() error {
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

		now := uc.clock.Now().UTC()
		record, balance, err := uc.post(txCtx, tx, wallet, roundUp, input.TransactionRef, now)
		if err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = &PostRoundUpResult{Record: record, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveRoundUp(result.Record.RoundupAmount)
	uc.logger.Info().
		Str("wallet_id", result.Record.WalletID).
		Str("roundup_amount", result.Record.RoundupAmount.String()).
		Msg("round-up posted")

	return result, nil
}

// IngestSpendingInput represents a spending event delivered by the transaction feed.
type IngestSpendingInput struct {
	UserID      string
	WalletID    string
	AccountID   *string
	ExternalID  string
	Amount      decimal.Decimal
	Description string
	Category    string
	OccurredAt  time.Time
	Unit        decimal.Decimal
}

// IngestSpendingResult describes what an ingestion wrote.
type IngestSpendingResult struct {
	Transaction *domain.LedgerTransaction
	// RoundUp is nil when the spend was a duplicate or needed no rounding.
	RoundUp   *domain.RoundUpRecord
	Balance   decimal.Decimal
	Duplicate bool
}

// IngestSpending records a spend once per external id and posts its round-up in the same
// transaction. Re-delivery of an already recorded external id writes nothing.
func (uc *RoundUpUseCase) IngestSpending(ctx context.Context, input IngestSpendingInput) (*IngestSpendingResult, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, domain.ErrInvalidExternalID
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	unit := uc.unitOrDefault(input.Unit)

	var roundUp *domain.RoundUp
	computed, err := domain.ComputeRoundUp(input.Amount, unit)
	switch {
	case err == nil:
		roundUp = &computed
	case errors.Is(err, domain.ErrNoRoundUpNeeded):
		uc.metrics.ObserveRoundUpSkipped()
	default:
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = domain.CategorySpending
	}

	var result *IngestSpendingResult
	err = withRetry(ctx, uc.retrier, func() error {
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

		now := uc.clock.Now().UTC()
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = now
		}

		walletID := wallet.ID
		txn := &domain.LedgerTransaction{
			ID:          uc.idGen.Generate(),
			UserID:      input.UserID,
			AccountID:   input.AccountID,
			WalletID:    &walletID,
			ExternalID:  externalID,
			Amount:      input.Amount.Neg(),
			Description: input.Description,
			Category:    category,
			OccurredAt:  occurredAt.UTC(),
			CreatedAt:   now,
		}

		inserted, err := uc.txnRepo.Insert(txCtx, tx, txn)
		if err != nil {
			return err
		}

		if !inserted {
			result = &IngestSpendingResult{Duplicate: true, Balance: wallet.CurrentAmount}
			return nil
		}

		res := &IngestSpendingResult{Transaction: txn, Balance: wallet.CurrentAmount}
		if roundUp != nil {
			ref := externalID
			record, balance, err := uc.post(txCtx, tx, wallet, *roundUp, &ref, now)
			if err != nil {
				return err
			}
			res.RoundUp = record
			res.Balance = balance
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		existing, err := uc.txnRepo.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		result.Transaction = existing
		uc.logger.Debug().Str("external_id", externalID).Msg("spending already ingested")
		return result, nil
	}

	if result.RoundUp != nil {
		uc.metrics.ObserveRoundUp(result.RoundUp.RoundupAmount)
	}

	return result, nil
}

// ListRoundUps lists round-up records of a wallet owned by userID, newest first.
func (uc *RoundUpUseCase) ListRoundUps(ctx context.Context, userID, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error) {
	if _, err := uc.walletRepo.GetForUser(ctx, userID, walletID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.roundUpRepo.ListByWallet(ctx, walletID, limit, offset)
}

// ListTransactions lists ledger transactions of userID, newest first.
func (uc *RoundUpUseCase) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.txnRepo.ListByUser(ctx, userID, limit, offset)
}

// post writes the record, the balance increment and the event inside tx.
func (uc *RoundUpUseCase) post(
	ctx context.Context,
	tx Transaction,
	wallet *domain.Wallet,
	roundUp domain.RoundUp,
	ref *string,
	now time.Time,
) (*domain.RoundUpRecord, decimal.Decimal, error) {
	record := &domain.RoundUpRecord{
		ID:             uc.idGen.Generate(),
		UserID:         wallet.UserID,
		WalletID:       wallet.ID,
		TransactionRef: ref,
		OriginalAmount: roundUp.OriginalAmount,
		RoundedAmount:  roundUp.RoundedAmount,
		RoundupAmount:  roundUp.RoundupAmount,
		CreatedAt:      now,
	}

	if err := uc.roundUpRepo.Create(ctx, tx, record); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := uc.walletRepo.IncrementBalance(ctx, tx, wallet.ID, record.RoundupAmount, now)
	if err != nil {
		return nil, decimal.Zero, err
	}

	event, err := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeWallet, wallet.ID, domain.EventTypeRoundUpPosted,
		domain.RoundUpPostedEvent{
			RoundUpID:      record.ID,
			UserID:         record.UserID,
			WalletID:       record.WalletID,
			OriginalAmount: record.OriginalAmount.String(),
			RoundupAmount:  record.RoundupAmount.String(),
		}, now)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, decimal.Zero, err
	}

	return record, balance, nil
}

func (uc *RoundUpUseCase) unitOrDefault(unit decimal.Decimal) decimal.Decimal {
	if unit.IsZero() {
		return uc.defaultUnit
	}
	return unit
}

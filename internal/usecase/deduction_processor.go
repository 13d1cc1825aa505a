package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/metrics"
)

// DeductionProcessor runs due auto-deduction schedules as a batch.
type DeductionProcessor struct {
	txManager       TransactionManager
	walletRepo      WalletRepository
	scheduleRepo    ScheduleRepository
	txnRepo         LedgerTransactionRepository
	outboxRepo      OutboxRepository
	transfer        FundsTransfer
	batchLock       BatchLock
	idGen           IDGenerator
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	transferTimeout time.Duration
	batchSize       int
	lockTTL         time.Duration
}

// DeductionProcessorDeps groups the collaborators of DeductionProcessor.
// BatchLock may be nil, in which case overlapping runs rely on row claims alone.
type DeductionProcessorDeps struct {
	TxManager       TransactionManager
	WalletRepo      WalletRepository
	ScheduleRepo    ScheduleRepository
	TxnRepo         LedgerTransactionRepository
	OutboxRepo      OutboxRepository
	Transfer        FundsTransfer
	BatchLock       BatchLock
	IDGen           IDGenerator
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
	TransferTimeout time.Duration
	BatchSize       int
	LockTTL         time.Duration
}

// NewDeductionProcessor creates a new DeductionProcessor.
func NewDeductionProcessor(deps DeductionProcessorDeps) *DeductionProcessor {
	p := &DeductionProcessor{
		txManager:       deps.TxManager,
		walletRepo:      deps.WalletRepo,
		scheduleRepo:    deps.ScheduleRepo,
		txnRepo:         deps.TxnRepo,
		outboxRepo:      deps.OutboxRepo,
		transfer:        deps.Transfer,
		batchLock:       deps.BatchLock,
		idGen:           deps.IDGen,
		metrics:         deps.Metrics,
		logger:          deps.Logger.With().Str("component", "deductions").Logger(),
		transferTimeout: deps.TransferTimeout,
		batchSize:       deps.BatchSize,
		lockTTL:         deps.LockTTL,
	}

	if p.transferTimeout <= 0 {
		p.transferTimeout = DefaultTransferTimeout
	}
	if p.batchSize <= 0 {
		p.batchSize = DefaultBatchSize
	}
	if p.lockTTL <= 0 {
		p.lockTTL = DefaultBatchLockTTL
	}

	return p
}

// ProcessDueDeductions processes every schedule due at now, oldest-due first, one schedule
// per transaction. Per-schedule failures are reported in the summary; an error is returned
// only when the due schedules cannot be listed. Each schedule is handled at most once per run.
func (p *DeductionProcessor) ProcessDueDeductions(ctx context.Context, now time.Time) (*domain.ProcessingSummary, error) {
	now = now.UTC()
	start := time.Now()
	summary := &domain.ProcessingSummary{ProcessedAt: now}

	release, acquired := p.acquireBatchLock(ctx)
	if !acquired {
		summary.Contended = true
		p.metrics.ObserveBatchContended()
		p.logger.Info().Msg("deduction batch already running, skipping")
		return summary, nil
	}
	defer release()

	seen := make(map[string]struct{})
	cursor := DueCursor{}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		page, err := p.scheduleRepo.ListDue(ctx, now, cursor, p.batchSize)
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to list due schedules")
			return summary, fmt.Errorf("list due schedules: %w", err)
		}

		for _, due := range page {
			if _, ok := seen[due.Schedule.ID]; ok {
				continue
			}
			seen[due.Schedule.ID] = struct{}{}

			item := p.processOne(ctx, due, now)
			switch item.Status {
			case domain.ItemStatusSucceeded:
				summary.Succeeded = append(summary.Succeeded, item)
			case domain.ItemStatusSkipped:
				summary.Skipped = append(summary.Skipped, item)
			default:
				summary.Failed = append(summary.Failed, item)
			}
			p.metrics.ObserveDeduction(string(item.Status), item.Amount)
		}

		if len(page) < p.batchSize {
			break
		}

		last := page[len(page)-1].Schedule
		cursor = DueCursor{AfterDue: last.NextDueDate, AfterID: last.ID}
	}

	p.metrics.ObserveBatch(time.Since(start).Seconds())
	p.logger.Info().
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Int("skipped", len(summary.Skipped)).
		Str("credited", summary.CreditedAmount().String()).
		Dur("duration", time.Since(start)).
		Msg("deduction batch finished")

	return summary, nil
}

// acquireBatchLock takes the cross-process batch lock. A lock backend failure does not stop
// the batch, since row claims alone already prevent double credits.
func (p *DeductionProcessor) acquireBatchLock(ctx context.Context) (func(), bool) {
	noop := func() {}
	if p.batchLock == nil {
		return noop, true
	}

	ok, err := p.batchLock.Acquire(ctx, BatchLockKey, p.lockTTL)
	if err != nil {
		p.logger.Warn().Err(err).Msg("batch lock unavailable, continuing without it")
		return noop, true
	}
	if !ok {
		return noop, false
	}

	return func() {
		// The run's own context may be done by now.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := p.batchLock.Release(releaseCtx, BatchLockKey); err != nil {
			p.logger.Warn().Err(err).Msg("failed to release batch lock")
		}
	}, true
}

func (p *DeductionProcessor) processOne(ctx context.Context, due *domain.DueSchedule, now time.Time) domain.ProcessedItem {
	s := due.Schedule
	item := domain.ProcessedItem{
		ScheduleID:      s.ID,
		UserID:          s.UserID,
		WalletID:        s.WalletID,
		Amount:          s.Amount,
		PreviousDueDate: s.NextDueDate,
		ExternalID:      domain.DeductionExternalID(s.ID, s.NextDueDate),
	}

	log := p.logger.With().
		Str("schedule_id", s.ID).
		Str("wallet_id", s.WalletID).
		Logger()

	if due.BankAccount == nil {
		item.Status = domain.ItemStatusFailed
		item.Error = domain.ErrBankAccountNotFound.Error()
		log.Warn().Msg("no active bank account for due schedule")
		return item
	}

	status, err := p.deduct(ctx, due, now, &item)
	item.Status = status

	switch status {
	case domain.ItemStatusSucceeded:
		log.Info().
			Str("amount", item.Amount.String()).
			Time("next_due_date", *item.NextDueDate).
			Msg("auto-deduction succeeded")
	case domain.ItemStatusSkipped:
		log.Debug().Msg("schedule claimed elsewhere or no longer due")
	default:
		item.Error = err.Error()
		log.Error().Err(err).Str("amount", item.Amount.String()).Msg("auto-deduction failed")
	}

	return item
}

// occurrenceRecorded reports whether the ledger already holds the audit row of an occurrence.
func (p *DeductionProcessor) occurrenceRecorded(ctx context.Context, externalID string) (bool, error) {
	_, err := p.txnRepo.GetByExternalID(ctx, externalID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return false, nil
	}
	return false, err
}

// deduct claims the schedule, moves the funds and commits the wallet credit, the schedule
// advance and the audit row together. Nothing is written locally unless the transfer succeeded,
// except that an occurrence already on the ledger is advanced past without a transfer.
func (p *DeductionProcessor) deduct(ctx context.Context, due *domain.DueSchedule, now time.Time, item *domain.ProcessedItem) (domain.ItemStatus, error) {
	txCtx, cancel := context.WithTimeout(ctx, p.transferTimeout+DefaultTransactionTimeout)
	defer cancel()

	tx, err := p.txManager.Begin(txCtx)
	if err != nil {
		return domain.ItemStatusFailed, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	schedule, ok, err := p.scheduleRepo.ClaimDue(txCtx, tx, due.Schedule.ID, now)
	if err != nil {
		return domain.ItemStatusFailed, err
	}
	if !ok {
		return domain.ItemStatusSkipped, nil
	}

	// The row may have been edited between listing and claiming.
	item.Amount = schedule.Amount
	item.PreviousDueDate = schedule.NextDueDate
	item.ExternalID = domain.DeductionExternalID(schedule.ID, schedule.NextDueDate)

	next, err := schedule.Advance()
	if err != nil {
		return domain.ItemStatusFailed, err
	}

	recorded, err := p.occurrenceRecorded(txCtx, item.ExternalID)
	if err != nil {
		return domain.ItemStatusFailed, err
	}
	if recorded {
		// Already paid and credited: only move the schedule past this occurrence.
		if err := p.scheduleRepo.AdvanceDueDate(txCtx, tx, schedule.ID, next, now); err != nil {
			return domain.ItemStatusFailed, err
		}
		if err := tx.Commit(txCtx); err != nil {
			return domain.ItemStatusFailed, err
		}
		p.metrics.ObserveDuplicateAuditRow()
		p.logger.Warn().
			Str("schedule_id", schedule.ID).
			Str("external_id", item.ExternalID).
			Msg("occurrence already recorded, advanced without transfer")
		item.NextDueDate = &next
		return domain.ItemStatusSkipped, nil
	}

	if err := p.callTransfer(txCtx, due.BankAccount.TransferCredential, item); err != nil {
		return domain.ItemStatusFailed, err
	}

	if _, err := p.walletRepo.IncrementBalance(txCtx, tx, schedule.WalletID, schedule.Amount, now); err != nil {
		return domain.ItemStatusFailed, err
	}

	if err := p.scheduleRepo.AdvanceDueDate(txCtx, tx, schedule.ID, next, now); err != nil {
		return domain.ItemStatusFailed, err
	}

	accountID := due.BankAccount.ID
	walletID := schedule.WalletID
	description := "Auto-deduction"
	if due.Wallet != nil {
		description = "Auto-deduction to " + due.Wallet.Name
	}

	inserted, err := p.txnRepo.Insert(txCtx, tx, &domain.LedgerTransaction{
		ID:          p.idGen.Generate(),
		UserID:      schedule.UserID,
		AccountID:   &accountID,
		WalletID:    &walletID,
		ExternalID:  item.ExternalID,
		Amount:      schedule.Amount.Neg(),
		Description: description,
		Category:    domain.CategoryAutoDeduction,
		OccurredAt:  now,
		CreatedAt:   now,
	})
	if err != nil {
		return domain.ItemStatusFailed, err
	}
	if !inserted {
		// Another writer recorded this occurrence after our check; the credit is rolled back
		// and the extra transfer is left for manual reversal.
		p.metrics.ObserveDuplicateAuditRow()
		p.logger.Error().
			Str("schedule_id", schedule.ID).
			Str("external_id", item.ExternalID).
			Msg("occurrence recorded concurrently, rolling back credit")
		return domain.ItemStatusFailed, domain.ErrDuplicateOccurrence
	}

	event, err := domain.NewOutboxEvent(p.idGen.Generate(), domain.AggregateTypeSchedule, schedule.ID, domain.EventTypeDeductionSucceeded,
		domain.DeductionSucceededEvent{
			ScheduleID:  schedule.ID,
			UserID:      schedule.UserID,
			WalletID:    schedule.WalletID,
			Amount:      schedule.Amount.String(),
			ExternalID:  item.ExternalID,
			NextDueDate: next.Format(time.RFC3339),
		}, now)
	if err != nil {
		return domain.ItemStatusFailed, err
	}

	if err := p.outboxRepo.Create(txCtx, tx, event); err != nil {
		return domain.ItemStatusFailed, err
	}

	if err := tx.Commit(txCtx); err != nil {
		// The rail has already moved the funds; the reference lets operators match them up.
		p.logger.Error().Err(err).
			Str("schedule_id", schedule.ID).
			Str("external_id", item.ExternalID).
			Msg("commit failed after successful transfer")
		return domain.ItemStatusFailed, err
	}

	item.NextDueDate = &next
	return domain.ItemStatusSucceeded, nil
}

func (p *DeductionProcessor) callTransfer(ctx context.Context, credential string, item *domain.ProcessedItem) error {
	transferCtx, cancel := context.WithTimeout(ctx, p.transferTimeout)
	defer cancel()

	start := time.Now()
	err := p.transfer.Transfer(transferCtx, credential, item.Amount, item.ExternalID)
	p.metrics.ObserveTransfer(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	return nil
}

package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
)

// ScheduleUseCase manages auto-deduction schedules on behalf of users.
type ScheduleUseCase struct {
	txManager    TransactionManager
	walletRepo   WalletRepository
	scheduleRepo ScheduleRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	clock        Clock
	logger       zerolog.Logger
}

// NewScheduleUseCase creates a new ScheduleUseCase.
func NewScheduleUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	scheduleRepo ScheduleRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		txManager:    txManager,
		walletRepo:   walletRepo,
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		clock:        clock,
		logger:       logger.With().Str("component", "schedule").Logger(),
	}
}

// CreateScheduleInput represents input for creating a schedule.
type CreateScheduleInput struct {
	UserID    string
	WalletID  string
	Amount    decimal.Decimal
	Frequency domain.Frequency
}

// CreateSchedule creates an active schedule whose first occurrence is one period from now.
func (uc *ScheduleUseCase) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*domain.AutoDeductionSchedule, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	next, err := domain.NextDueDate(now, input.Frequency)
	if err != nil {
		return nil, err
	}

	if _, err := uc.walletRepo.GetForUser(ctx, input.UserID, input.WalletID); err != nil {
		return nil, err
	}

	schedule := &domain.AutoDeductionSchedule{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		NextDueDate: next,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.scheduleRepo.Create(txCtx, tx, schedule); err != nil {
		return nil, err
	}

	event, err := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeSchedule, schedule.ID, domain.EventTypeScheduleCreated,
		domain.ScheduleCreatedEvent{
			ScheduleID:  schedule.ID,
			UserID:      schedule.UserID,
			WalletID:    schedule.WalletID,
			Amount:      schedule.Amount.String(),
			Frequency:   string(schedule.Frequency),
			NextDueDate: schedule.NextDueDate.Format(time.RFC3339),
		}, now)
	if err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("schedule_id", schedule.ID).
		Str("wallet_id", schedule.WalletID).
		Str("frequency", string(schedule.Frequency)).
		Time("next_due_date", schedule.NextDueDate).
		Msg("schedule created")

	return schedule, nil
}

// UpdateScheduleInput represents a partial update. Nil fields are left unchanged.
type UpdateScheduleInput struct {
	UserID     string
	ScheduleID string
	Amount     *decimal.Decimal
	Frequency  *domain.Frequency
	IsActive   *bool
}

// UpdateSchedule applies a partial update. A frequency change or a re-activation seeds the
// next due date from now; otherwise the existing due date is kept.
func (uc *ScheduleUseCase) UpdateSchedule(ctx context.Context, input UpdateScheduleInput) (*domain.AutoDeductionSchedule, error) {
	if input.Amount == nil && input.Frequency == nil && input.IsActive == nil {
		return nil, domain.ErrEmptyUpdate
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	if input.Frequency != nil && !input.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// The row lock orders this edit against a batch advancing the same schedule.
	schedule, err := uc.scheduleRepo.GetForUpdate(txCtx, tx, input.UserID, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	reseed := false

	if input.Amount != nil {
		schedule.Amount = *input.Amount
	}

	if input.Frequency != nil && *input.Frequency != schedule.Frequency {
		schedule.Frequency = *input.Frequency
		reseed = true
	}

	if input.IsActive != nil {
		if *input.IsActive && !schedule.IsActive {
			reseed = true
		}
		schedule.IsActive = *input.IsActive
	}

	if reseed {
		next, err := domain.NextDueDate(now, schedule.Frequency)
		if err != nil {
			return nil, err
		}
		schedule.NextDueDate = next
	}

	schedule.UpdatedAt = now

	if err := uc.scheduleRepo.Update(txCtx, tx, schedule); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return schedule, nil
}

// DeleteSchedule removes a schedule permanently.
func (uc *ScheduleUseCase) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	if err := uc.scheduleRepo.Delete(ctx, userID, scheduleID); err != nil {
		return err
	}

	uc.logger.Info().Str("schedule_id", scheduleID).Msg("schedule deleted")
	return nil
}

// ListSchedules lists the schedules of a user.
func (uc *ScheduleUseCase) ListSchedules(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error) {
	return uc.scheduleRepo.ListByUser(ctx, userID)
}

package postgres

import (
	"context"
	"time"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/postgres/generated"
	"github.com/iho/autosave/internal/usecase"
)

// ScheduleRepository implements usecase.ScheduleRepository.
type ScheduleRepository struct {
	queries *generated.Queries
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db generated.DBTX) *ScheduleRepository {
	return &ScheduleRepository{queries: generated.New(db)}
}

// Create inserts a schedule, inside tx when one is given.
func (r *ScheduleRepository) Create(ctx context.Context, tx usecase.Transaction, schedule *domain.AutoDeductionSchedule) error {
	queries := queriesFor(tx, r.queries)

	err := queries.CreateSchedule(ctx, generated.CreateScheduleParams{
		ID:          schedule.ID,
		UserID:      schedule.UserID,
		WalletID:    schedule.WalletID,
		Amount:      decimalToNumeric(schedule.Amount),
		Frequency:   string(schedule.Frequency),
		NextDueDate: timeToPgTimestamptz(schedule.NextDueDate),
		IsActive:    schedule.IsActive,
		CreatedAt:   timeToPgTimestamptz(schedule.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(schedule.UpdatedAt),
	})
	if err != nil {
		return storeErr("create schedule", err)
	}

	return nil
}

// GetForUser retrieves a schedule owned by userID.
func (r *ScheduleRepository) GetForUser(ctx context.Context, userID, scheduleID string) (*domain.AutoDeductionSchedule, error) {
	row, err := r.queries.GetScheduleForUser(ctx, generated.GetScheduleForUserParams{ID: scheduleID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrScheduleNotFound
		}

		return nil, storeErr("get schedule", err)
	}

	return rowToSchedule(row), nil
}

// GetForUpdate retrieves a schedule owned by userID and locks its row until tx ends.
func (r *ScheduleRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, scheduleID string) (*domain.AutoDeductionSchedule, error) {
	queries := queriesFor(tx, r.queries)

	row, err := queries.GetScheduleForUpdate(ctx, generated.GetScheduleForUpdateParams{ID: scheduleID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrScheduleNotFound
		}

		return nil, storeErr("lock schedule", err)
	}

	return rowToSchedule(row), nil
}

// ListByUser lists a user's schedules, soonest due first.
func (r *ScheduleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error) {
	rows, err := r.queries.ListSchedulesByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list schedules", err)
	}

	schedules := make([]*domain.AutoDeductionSchedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, rowToSchedule(row))
	}

	return schedules, nil
}

// Update writes the mutable columns of a schedule, inside tx when one is given.
func (r *ScheduleRepository) Update(ctx context.Context, tx usecase.Transaction, schedule *domain.AutoDeductionSchedule) error {
	queries := queriesFor(tx, r.queries)

	n, err := queries.UpdateSchedule(ctx, generated.UpdateScheduleParams{
		ID:          schedule.ID,
		UserID:      schedule.UserID,
		Amount:      decimalToNumeric(schedule.Amount),
		Frequency:   string(schedule.Frequency),
		NextDueDate: timeToPgTimestamptz(schedule.NextDueDate),
		IsActive:    schedule.IsActive,
		UpdatedAt:   timeToPgTimestamptz(schedule.UpdatedAt),
	})
	if err != nil {
		return storeErr("update schedule", err)
	}
	if n == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

// Delete removes a schedule owned by userID.
func (r *ScheduleRepository) Delete(ctx context.Context, userID, scheduleID string) error {
	n, err := r.queries.DeleteSchedule(ctx, generated.DeleteScheduleParams{ID: scheduleID, UserID: userID})
	if err != nil {
		return storeErr("delete schedule", err)
	}
	if n == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

// ListDue returns one keyset page of due schedules joined with their wallet and the
// owner's first active bank account.
func (r *ScheduleRepository) ListDue(ctx context.Context, now time.Time, cursor usecase.DueCursor, limit int) ([]*domain.DueSchedule, error) {
	rows, err := r.queries.ListDueSchedules(ctx, generated.ListDueSchedulesParams{
		Now:      timeToPgTimestamptz(now),
		AfterDue: timeToPgTimestamptz(cursor.AfterDue),
		AfterID:  cursor.AfterID,
		RowLimit: int32(limit),
	})
	if err != nil {
		return nil, storeErr("list due schedules", err)
	}

	due := make([]*domain.DueSchedule, 0, len(rows))
	for _, row := range rows {
		due = append(due, rowToDueSchedule(row))
	}

	return due, nil
}

// ClaimDue locks the schedule row with SKIP LOCKED. ok is false when the row is held
// elsewhere or no longer due.
func (r *ScheduleRepository) ClaimDue(ctx context.Context, tx usecase.Transaction, scheduleID string, now time.Time) (*domain.AutoDeductionSchedule, bool, error) {
	queries := queriesFor(tx, r.queries)

	row, err := queries.ClaimDueSchedule(ctx, generated.ClaimDueScheduleParams{
		ID:          scheduleID,
		NextDueDate: timeToPgTimestamptz(now),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}

		return nil, false, storeErr("claim schedule", err)
	}

	return rowToSchedule(row), true, nil
}

// AdvanceDueDate moves a schedule to its next occurrence.
func (r *ScheduleRepository) AdvanceDueDate(ctx context.Context, tx usecase.Transaction, scheduleID string, next, updatedAt time.Time) error {
	queries := queriesFor(tx, r.queries)

	err := queries.AdvanceScheduleDueDate(ctx, generated.AdvanceScheduleDueDateParams{
		ID:          scheduleID,
		NextDueDate: timeToPgTimestamptz(next),
		UpdatedAt:   timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return storeErr("advance schedule", err)
	}

	return nil
}

// ListUpcoming lists active schedules due on or before until.
func (r *ScheduleRepository) ListUpcoming(ctx context.Context, until time.Time, limit int) ([]*domain.UpcomingSchedule, error) {
	rows, err := r.queries.ListUpcomingSchedules(ctx, generated.ListUpcomingSchedulesParams{
		NextDueDate: timeToPgTimestamptz(until),
		Limit:       int32(limit),
	})
	if err != nil {
		return nil, storeErr("list upcoming schedules", err)
	}

	upcoming := make([]*domain.UpcomingSchedule, 0, len(rows))
	for _, row := range rows {
		upcoming = append(upcoming, &domain.UpcomingSchedule{
			Schedule: rowToSchedule(generated.AutoDeductionSchedule{
				ID:          row.ID,
				UserID:      row.UserID,
				WalletID:    row.WalletID,
				Amount:      row.Amount,
				Frequency:   row.Frequency,
				NextDueDate: row.NextDueDate,
				IsActive:    row.IsActive,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			}),
			WalletName: row.WalletName,
		})
	}

	return upcoming, nil
}

// Stats aggregates active schedules; overdue counts those due at or before now.
func (r *ScheduleRepository) Stats(ctx context.Context, now time.Time) (*domain.ScheduleStats, error) {
	row, err := r.queries.GetScheduleStats(ctx, timeToPgTimestamptz(now))
	if err != nil {
		return nil, storeErr("schedule stats", err)
	}

	return &domain.ScheduleStats{
		ActiveSchedules: row.ActiveSchedules,
		TotalAmount:     numericToDecimal(row.TotalAmount),
		DistinctUsers:   row.DistinctUsers,
		OverdueCount:    row.OverdueCount,
	}, nil
}

func rowToSchedule(row generated.AutoDeductionSchedule) *domain.AutoDeductionSchedule {
	return &domain.AutoDeductionSchedule{
		ID:          row.ID,
		UserID:      row.UserID,
		WalletID:    row.WalletID,
		Amount:      numericToDecimal(row.Amount),
		Frequency:   domain.Frequency(row.Frequency),
		NextDueDate: row.NextDueDate.Time,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func rowToDueSchedule(row generated.ListDueSchedulesRow) *domain.DueSchedule {
	due := &domain.DueSchedule{
		Schedule: rowToSchedule(generated.AutoDeductionSchedule{
			ID:          row.ID,
			UserID:      row.UserID,
			WalletID:    row.WalletID,
			Amount:      row.Amount,
			Frequency:   row.Frequency,
			NextDueDate: row.NextDueDate,
			IsActive:    row.IsActive,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		}),
		Wallet: &domain.Wallet{
			ID:            row.WalletID,
			UserID:        row.UserID,
			Name:          row.WalletName,
			CurrentAmount: numericToDecimal(row.WalletCurrentAmount),
			IsLocked:      row.WalletIsLocked,
		},
	}

	if row.AccountID.Valid {
		due.BankAccount = &domain.LinkedBankAccount{
			ID:                 row.AccountID.String,
			UserID:             row.UserID,
			InstitutionName:    row.InstitutionName.String,
			AccountMask:        row.AccountMask.String,
			TransferCredential: row.TransferCredential.String,
			IsActive:           true,
			CreatedAt:          row.AccountCreatedAt.Time,
		}
	}

	return due
}

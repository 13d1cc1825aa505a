package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence of an auto-deduction.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

// ParseFrequency parses a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// NextDueDate returns the due date following current for the given frequency.
//
// Monthly uses calendar month arithmetic, so Jan 31 advances to Mar 3 (or Mar 2 in a
// leap year) following time.AddDate normalization.
func NextDueDate(current time.Time, frequency Frequency) (time.Time, error) {
	switch frequency {
	case FrequencyDaily:
		return current.Add(24 * time.Hour), nil
	case FrequencyWeekly:
		return current.Add(7 * 24 * time.Hour), nil
	case FrequencyBiWeekly:
		return current.Add(14 * 24 * time.Hour), nil
	case FrequencyMonthly:
		return current.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidFrequency, frequency)
	}
}

// AutoDeductionSchedule is a recurring transfer from a linked bank account into a wallet.
type AutoDeductionSchedule struct {
	ID          string
	UserID      string
	WalletID    string
	Amount      decimal.Decimal
	Frequency   Frequency
	NextDueDate time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the schedule's invariants.
func (s *AutoDeductionSchedule) Validate() error {
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !s.Frequency.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidFrequency, s.Frequency)
	}
	return nil
}

// IsDue reports whether the schedule should be processed at now.
func (s *AutoDeductionSchedule) IsDue(now time.Time) bool {
	return s.IsActive && !s.NextDueDate.After(now)
}

// Advance returns the next due date seeded from the current due date, not from now,
// so a delayed run does not drift the schedule.
func (s *AutoDeductionSchedule) Advance() (time.Time, error) {
	return NextDueDate(s.NextDueDate, s.Frequency)
}

// DueSchedule is a due schedule joined with its wallet and the owner's bank account.
type DueSchedule struct {
	Schedule    *AutoDeductionSchedule
	Wallet      *Wallet
	BankAccount *LinkedBankAccount
}

// UpcomingSchedule is a reporting projection of an active schedule.
type UpcomingSchedule struct {
	Schedule   *AutoDeductionSchedule
	WalletName string
	Overdue    bool
}

// ScheduleStats aggregates active schedules.
type ScheduleStats struct {
	ActiveSchedules int64
	TotalAmount     decimal.Decimal
	DistinctUsers   int64
	OverdueCount    int64
}

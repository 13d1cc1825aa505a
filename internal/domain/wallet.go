package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Penalty limits in percent.
var (
	DefaultPenaltyPercentage = decimal.NewFromInt(10)
	MaxPenaltyPercentage     = decimal.NewFromInt(50)
)

var hundred = decimal.NewFromInt(100)

// Wallet is a user's named savings balance with an optional lock until a target date.
type Wallet struct {
	ID                string
	UserID            string
	Name              string
	CurrentAmount     decimal.Decimal
	TargetAmount      decimal.Decimal
	TargetDate        *time.Time
	IsLocked          bool
	PenaltyPercentage decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LockState is the lock state of a wallet.
type LockState string

const (
	LockStateUnlocked LockState = "unlocked"
	LockStateLocked   LockState = "locked"
)

// State returns the current lock state.
func (w *Wallet) State() LockState {
	if w.IsLocked {
		return LockStateLocked
	}
	return LockStateUnlocked
}

// ValidateLock checks a lock request against the wallet at the given instant.
func ValidateLock(targetDate time.Time, penaltyPercentage decimal.Decimal, now time.Time) error {
	if !targetDate.After(now) {
		return ErrInvalidTargetDate
	}

	if penaltyPercentage.IsNegative() || penaltyPercentage.GreaterThan(MaxPenaltyPercentage) {
		return ErrInvalidPenalty
	}

	if !HasMoneyScale(penaltyPercentage) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidPenalty, MoneyDecimalPlaces)
	}

	return nil
}

// IsEarlyWithdrawal reports whether unlocking now would incur a penalty.
func (w *Wallet) IsEarlyWithdrawal(now time.Time) bool {
	return w.IsLocked && w.TargetDate != nil && w.TargetDate.After(now)
}

// PenaltyAt returns the penalty that unlocking at now would deduct.
func (w *Wallet) PenaltyAt(now time.Time) decimal.Decimal {
	if !w.IsEarlyWithdrawal(now) {
		return decimal.Zero
	}

	return ComputePenalty(w.CurrentAmount, w.PenaltyPercentage)
}

// ComputePenalty returns balance * percentage / 100 rounded to cents.
func ComputePenalty(balance, percentage decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) || percentage.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return balance.Mul(percentage).Div(hundred).Round(2)
}

// LockStatus is a read-only projection of a wallet's lock.
type LockStatus struct {
	WalletID             string
	State                LockState
	TargetDate           *time.Time
	DaysRemaining        int
	CanWithdrawNoPenalty bool
	PenaltyPercentage    decimal.Decimal
	PenaltyIfUnlockedNow decimal.Decimal
	CurrentAmount        decimal.Decimal
}

// StatusAt computes the lock status without mutating the wallet.
func (w *Wallet) StatusAt(now time.Time) LockStatus {
	status := LockStatus{
		WalletID:             w.ID,
		State:                w.State(),
		TargetDate:           w.TargetDate,
		CanWithdrawNoPenalty: !w.IsEarlyWithdrawal(now),
		PenaltyPercentage:    w.PenaltyPercentage,
		PenaltyIfUnlockedNow: w.PenaltyAt(now),
		CurrentAmount:        w.CurrentAmount,
	}

	if w.IsLocked && w.TargetDate != nil {
		status.DaysRemaining = DaysUntil(now, *w.TargetDate)
	}

	return status
}

// DaysUntil returns whole days from now until t, rounded up, never negative.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}

	return int(math.Ceil(d.Hours() / 24))
}

// UnlockResult describes the outcome of an unlock.
type UnlockResult struct {
	Wallet        *Wallet
	Early         bool
	PenaltyAmount decimal.Decimal
}

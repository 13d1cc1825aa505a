package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction categories written by the engine.
const (
	CategoryAutoDeduction          = "auto_deduction"
	CategoryEarlyWithdrawalPenalty = "early_withdrawal_penalty"
	CategorySpending               = "spending"
)

// LinkedBankAccount is a user's bank account linked for transfers. Read-only to the engine.
type LinkedBankAccount struct {
	ID                 string
	UserID             string
	InstitutionName    string
	AccountMask        string
	TransferCredential string
	IsActive           bool
	CreatedAt          time.Time
}

// LedgerTransaction is an immutable audit row of money movement.
// A negative amount leaves the bank account.
type LedgerTransaction struct {
	ID          string
	UserID      string
	AccountID   *string
	WalletID    *string
	ExternalID  string
	Amount      decimal.Decimal
	Description string
	Category    string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// DeductionExternalID identifies one occurrence of a schedule.
// The same occurrence always maps to the same id.
func DeductionExternalID(scheduleID string, dueAt time.Time) string {
	return fmt.Sprintf("autodeduct:%s:%d", scheduleID, dueAt.Unix())
}

// PenaltyExternalID identifies an early-withdrawal penalty.
func PenaltyExternalID(walletID string, at time.Time) string {
	return fmt.Sprintf("penalty:%s:%d", walletID, at.UnixNano())
}

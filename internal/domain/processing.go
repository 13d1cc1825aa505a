package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus is the outcome of processing one due schedule.
type ItemStatus string

const (
	ItemStatusSucceeded ItemStatus = "succeeded"
	ItemStatusFailed    ItemStatus = "failed"
	ItemStatusSkipped   ItemStatus = "skipped"
)

// ProcessedItem records what happened to one schedule in a batch.
type ProcessedItem struct {
	ScheduleID      string
	UserID          string
	WalletID        string
	Amount          decimal.Decimal
	Status          ItemStatus
	PreviousDueDate time.Time
	NextDueDate     *time.Time
	ExternalID      string
	Error           string
}

// ProcessingSummary is the result of one batch run. A batch always completes;
// per-item failures are reported here rather than returned.
type ProcessingSummary struct {
	ProcessedAt time.Time
	Succeeded   []ProcessedItem
	Failed      []ProcessedItem
	Skipped     []ProcessedItem
	// Contended is set when another run held the batch lock and nothing was processed.
	Contended bool
}

// Total returns the number of schedules the batch looked at.
func (s *ProcessingSummary) Total() int {
	return len(s.Succeeded) + len(s.Failed) + len(s.Skipped)
}

// CreditedAmount returns the sum credited to wallets in the batch.
func (s *ProcessingSummary) CreditedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Succeeded {
		total = total.Add(item.Amount)
	}
	return total
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	EventTypeRoundUpPosted      = "roundup.posted"
	EventTypeDeductionSucceeded = "deduction.succeeded"
	EventTypeWalletLocked       = "wallet.locked"
	EventTypeWalletUnlocked     = "wallet.unlocked"
	EventTypeScheduleCreated    = "schedule.created"
)

// Aggregate types
const (
	AggregateTypeWallet   = "wallet"
	AggregateTypeSchedule = "schedule"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOutboxEvent builds an unpublished event from one of the typed payloads below.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload any, createdAt time.Time) (*OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", eventType, err)
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       fields,
		CreatedAt:     createdAt,
		Published:     false,
	}, nil
}

// RoundUpPostedEvent payload
type RoundUpPostedEvent struct {
	RoundUpID      string `json:"roundup_id"`
	UserID         string `json:"user_id"`
	WalletID       string `json:"wallet_id"`
	OriginalAmount string `json:"original_amount"`
	RoundupAmount  string `json:"roundup_amount"`
}

// DeductionSucceededEvent payload
type DeductionSucceededEvent struct {
	ScheduleID  string `json:"schedule_id"`
	UserID      string `json:"user_id"`
	WalletID    string `json:"wallet_id"`
	Amount      string `json:"amount"`
	ExternalID  string `json:"external_id"`
	NextDueDate string `json:"next_due_date"`
}

// WalletLockedEvent payload
type WalletLockedEvent struct {
	WalletID          string `json:"wallet_id"`
	UserID            string `json:"user_id"`
	TargetDate        string `json:"target_date"`
	PenaltyPercentage string `json:"penalty_percentage"`
}

// WalletUnlockedEvent payload
type WalletUnlockedEvent struct {
	WalletID      string `json:"wallet_id"`
	UserID        string `json:"user_id"`
	Early         bool   `json:"early"`
	PenaltyAmount string `json:"penalty_amount"`
	BalanceAfter  string `json:"balance_after"`
}

// ScheduleCreatedEvent payload
type ScheduleCreatedEvent struct {
	ScheduleID  string `json:"schedule_id"`
	UserID      string `json:"user_id"`
	WalletID    string `json:"wallet_id"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	NextDueDate string `json:"next_due_date"`
}

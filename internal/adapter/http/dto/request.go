package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// Amounts travel as decimal strings ("4.35") so no precision is lost in JSON.

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	Name         string     `json:"name"`
	TargetAmount string     `json:"target_amount,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
}

// Validate checks the request shape.
func (r *CreateWalletRequest) Validate() error {
	if err := domain.ValidateWalletName(r.Name); err != nil {
		return err
	}
	if r.TargetAmount == "" {
		return nil
	}
	amount, err := parseDecimal("target_amount", r.TargetAmount)
	if err != nil {
		return err
	}
	return domain.ValidateTargetAmount(amount)
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput(userID string) (usecase.CreateWalletInput, error) {
	input := usecase.CreateWalletInput{
		UserID:       userID,
		Name:         r.Name,
		TargetAmount: decimal.Zero,
		TargetDate:   r.TargetDate,
	}
	if r.TargetAmount != "" {
		amount, err := parseDecimal("target_amount", r.TargetAmount)
		if err != nil {
			return usecase.CreateWalletInput{}, err
		}
		input.TargetAmount = amount
	}
	return input, nil
}

// PostRoundUpRequest represents a request to post a round-up for a purchase.
type PostRoundUpRequest struct {
	OriginalAmount string  `json:"original_amount"`
	Unit           string  `json:"unit,omitempty"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
}

// Validate checks the request shape.
func (r *PostRoundUpRequest) Validate() error {
	if _, err := parseAmount("original_amount", r.OriginalAmount); err != nil {
		return err
	}
	if r.Unit != "" {
		if _, err := parseAmount("unit", r.Unit); err != nil {
			return err
		}
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *PostRoundUpRequest) ToUseCaseInput(userID, walletID string) (usecase.PostRoundUpInput, error) {
	original, err := parseAmount("original_amount", r.OriginalAmount)
	if err != nil {
		return usecase.PostRoundUpInput{}, err
	}

	unit, err := parseOptionalAmount("unit", r.Unit)
	if err != nil {
		return usecase.PostRoundUpInput{}, err
	}

	return usecase.PostRoundUpInput{
		UserID:         userID,
		WalletID:       walletID,
		OriginalAmount: original,
		Unit:           unit,
		TransactionRef: r.TransactionRef,
	}, nil
}

// LockRequest represents a request to lock a wallet until a target date.
type LockRequest struct {
	TargetDate        *time.Time `json:"target_date"`
	PenaltyPercentage string     `json:"penalty_percentage,omitempty"`
}

// Validate checks the request shape.
func (r *LockRequest) Validate() error {
	if r.TargetDate == nil {
		return fmt.Errorf("%w: target_date is required", domain.ErrValidation)
	}
	if r.PenaltyPercentage != "" {
		if _, err := decimal.NewFromString(r.PenaltyPercentage); err != nil {
			return fmt.Errorf("%w: penalty_percentage %q is not a number", domain.ErrValidation, r.PenaltyPercentage)
		}
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *LockRequest) ToUseCaseInput(userID, walletID string) (usecase.LockInput, error) {
	if err := r.Validate(); err != nil {
		return usecase.LockInput{}, err
	}

	input := usecase.LockInput{
		UserID:     userID,
		WalletID:   walletID,
		TargetDate: r.TargetDate.UTC(),
	}
	if r.PenaltyPercentage != "" {
		pct := decimal.RequireFromString(r.PenaltyPercentage)
		input.PenaltyPercentage = &pct
	}
	return input, nil
}

// IngestTransactionRequest represents a spending event from a linked account.
type IngestTransactionRequest struct {
	WalletID    string     `json:"wallet_id"`
	AccountID   *string    `json:"account_id,omitempty"`
	ExternalID  string     `json:"external_id"`
	Amount      string     `json:"amount"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	Unit        string     `json:"unit,omitempty"`
}

// Validate checks the request shape.
func (r *IngestTransactionRequest) Validate() error {
	if strings.TrimSpace(r.WalletID) == "" {
		return fmt.Errorf("%w: wallet_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(r.ExternalID) == "" {
		return domain.ErrInvalidExternalID
	}
	if _, err := parseAmount("amount", r.Amount); err != nil {
		return err
	}
	if r.Unit != "" {
		if _, err := parseAmount("unit", r.Unit); err != nil {
			return err
		}
	}
	return domain.ValidateDescription(r.Description)
}

// ToUseCaseInput converts to use case input.
func (r *IngestTransactionRequest) ToUseCaseInput(userID string) (usecase.IngestSpendingInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.IngestSpendingInput{}, err
	}

	unit, err := parseOptionalAmount("unit", r.Unit)
	if err != nil {
		return usecase.IngestSpendingInput{}, err
	}

	input := usecase.IngestSpendingInput{
		UserID:      userID,
		WalletID:    r.WalletID,
		AccountID:   r.AccountID,
		ExternalID:  r.ExternalID,
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Unit:        unit,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = r.OccurredAt.UTC()
	}
	return input, nil
}

// CreateScheduleRequest represents a request to create an auto-deduction schedule.
type CreateScheduleRequest struct {
	WalletID  string `json:"wallet_id"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
}

// Validate checks the request shape.
func (r *CreateScheduleRequest) Validate() error {
	if strings.TrimSpace(r.WalletID) == "" {
		return fmt.Errorf("%w: wallet_id is required", domain.ErrValidation)
	}
	if _, err := parseAmount("amount", r.Amount); err != nil {
		return err
	}
	_, err := domain.ParseFrequency(r.Frequency)
	return err
}

// ToUseCaseInput converts to use case input.
func (r *CreateScheduleRequest) ToUseCaseInput(userID string) (usecase.CreateScheduleInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.CreateScheduleInput{}, err
	}

	frequency, err := domain.ParseFrequency(r.Frequency)
	if err != nil {
		return usecase.CreateScheduleInput{}, err
	}

	return usecase.CreateScheduleInput{
		UserID:    userID,
		WalletID:  r.WalletID,
		Amount:    amount,
		Frequency: frequency,
	}, nil
}

// UpdateScheduleRequest represents a partial update of a schedule. Omitted fields are kept.
type UpdateScheduleRequest struct {
	Amount    *string `json:"amount,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Validate checks the request shape.
func (r *UpdateScheduleRequest) Validate() error {
	if r.Amount == nil && r.Frequency == nil && r.IsActive == nil {
		return domain.ErrEmptyUpdate
	}
	if r.Amount != nil {
		if _, err := parseAmount("amount", *r.Amount); err != nil {
			return err
		}
	}
	if r.Frequency != nil {
		if _, err := domain.ParseFrequency(*r.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// ToUseCaseInput converts to use case input.
func (r *UpdateScheduleRequest) ToUseCaseInput(userID, scheduleID string) (usecase.UpdateScheduleInput, error) {
	input := usecase.UpdateScheduleInput{
		UserID:     userID,
		ScheduleID: scheduleID,
		IsActive:   r.IsActive,
	}

	if r.Amount != nil {
		amount, err := parseAmount("amount", *r.Amount)
		if err != nil {
			return usecase.UpdateScheduleInput{}, err
		}
		input.Amount = &amount
	}

	if r.Frequency != nil {
		frequency, err := domain.ParseFrequency(*r.Frequency)
		if err != nil {
			return usecase.UpdateScheduleInput{}, err
		}
		input.Frequency = &frequency
	}

	return input, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a decimal amount", domain.ErrValidation, field, raw)
	}
	return amount, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive", domain.ErrInvalidAmount, field)
	}
	if !domain.HasMoneyScale(amount) {
		return decimal.Zero, fmt.Errorf("%w: %s must have at most %d decimal places", domain.ErrInvalidAmount, field, domain.MoneyDecimalPlaces)
	}
	return amount, nil
}

func parseOptionalAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, raw)
}

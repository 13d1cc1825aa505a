package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxWalletNameLength  = 100
	MinWalletNameLength  = 1
	MaxDescriptionLength = 500
	MaxTransferAmount    = "1000000000" // 1 billion
	MinTransferAmount    = "0.01"

	// MoneyDecimalPlaces is the scale of every stored amount.
	MoneyDecimalPlaces = 2
)

// HasMoneyScale reports whether amount is a whole number of cents.
func HasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyDecimalPlaces))
}

// ValidateWalletName validates wallet display name
func ValidateWalletName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinWalletNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidWalletName)
	}

	if len(name) > MaxWalletNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidWalletName, MaxWalletNameLength)
	}

	return nil
}

// ValidateAmount validates round-up, deduction and spend amounts
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !HasMoneyScale(amount) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyDecimalPlaces)
	}

	minAmount, _ := decimal.NewFromString(MinTransferAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrInvalidAmount, MinTransferAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransferAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransferAmount)
	}

	return nil
}

// ValidateTargetAmount validates a wallet savings goal. Zero means no goal.
func ValidateTargetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidTargetAmount
	}
	if !HasMoneyScale(amount) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidTargetAmount, MoneyDecimalPlaces)
	}
	return nil
}

// ValidateDescription validates free-form transaction text
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

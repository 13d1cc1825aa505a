package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRoundUpUnit rounds spending up to the next whole currency unit.
var DefaultRoundUpUnit = decimal.NewFromInt(1)

// RoundUp is the result of rounding a spend amount.
type RoundUp struct {
	OriginalAmount decimal.Decimal
	RoundedAmount  decimal.Decimal
	RoundupAmount  decimal.Decimal
}

// ComputeRoundUp rounds original up to the next multiple of unit. Both must be whole
// cents, so the delta is too. It returns ErrNoRoundUpNeeded when original is already a multiple.
func ComputeRoundUp(original, unit decimal.Decimal) (RoundUp, error) {
	if original.LessThanOrEqual(decimal.Zero) {
		return RoundUp{}, ErrInvalidAmount
	}
	if !HasMoneyScale(original) {
		return RoundUp{}, fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyDecimalPlaces)
	}
	if unit.LessThanOrEqual(decimal.Zero) {
		return RoundUp{}, ErrInvalidRoundUpUnit
	}
	if !HasMoneyScale(unit) {
		return RoundUp{}, fmt.Errorf("%w: at most %d decimal places", ErrInvalidRoundUpUnit, MoneyDecimalPlaces)
	}

	rounded := original.Div(unit).Ceil().Mul(unit)
	delta := rounded.Sub(original)
	if delta.LessThanOrEqual(decimal.Zero) {
		return RoundUp{}, ErrNoRoundUpNeeded
	}

	return RoundUp{
		OriginalAmount: original,
		RoundedAmount:  rounded,
		RoundupAmount:  delta,
	}, nil
}

// RoundUpRecord is the immutable audit row of a posted round-up.
type RoundUpRecord struct {
	ID             string
	UserID         string
	WalletID       string
	TransactionRef *string
	OriginalAmount decimal.Decimal
	RoundedAmount  decimal.Decimal
	RoundupAmount  decimal.Decimal
	CreatedAt      time.Time
}

package domain

import "errors"

// Error kinds. Every specific error below matches exactly one kind via errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrNoOp           = errors.New("nothing to do")
	ErrTransferFailed = errors.New("funds transfer failed")
	ErrPersistence    = errors.New("ledger store unavailable")
	ErrConflict       = errors.New("conflict")
)

var (
	// Validation errors
	ErrInvalidAmount       = newKindError(ErrValidation, "amount must be positive")
	ErrInvalidFrequency    = newKindError(ErrValidation, "frequency must be one of daily, weekly, bi-weekly, monthly")
	ErrInvalidRoundUpUnit  = newKindError(ErrValidation, "round-up unit must be positive")
	ErrInvalidTargetDate   = newKindError(ErrValidation, "target date must be in the future")
	ErrInvalidPenalty      = newKindError(ErrValidation, "penalty percentage must be between 0 and 50")
	ErrInvalidWalletName   = newKindError(ErrValidation, "invalid wallet name")
	ErrInvalidTargetAmount = newKindError(ErrValidation, "target amount must not be negative")
	ErrInvalidExternalID   = newKindError(ErrValidation, "external transaction id is required")
	ErrEmptyUpdate         = newKindError(ErrValidation, "update must change at least one field")
	ErrLockWeakening       = newKindError(ErrValidation, "a locked wallet cannot move its target date earlier or lower its penalty")

	// Not found errors
	ErrWalletNotFound      = newKindError(ErrNotFound, "wallet not found")
	ErrScheduleNotFound    = newKindError(ErrNotFound, "auto-deduction schedule not found")
	ErrBankAccountNotFound = newKindError(ErrNotFound, "no active linked bank account")
	ErrTransactionNotFound = newKindError(ErrNotFound, "ledger transaction not found")

	// No-op conditions
	ErrNoRoundUpNeeded = newKindError(ErrNoOp, "amount is already a whole multiple of the round-up unit")

	// Conflicts
	ErrBatchInProgress     = newKindError(ErrConflict, "another deduction batch is running")
	ErrDuplicateOccurrence = newKindError(ErrConflict, "deduction occurrence already recorded")
)

// kindError is a specific error that also reports its kind through Unwrap.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// IsUserError reports whether err is caused by the caller rather than by the system.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoOp)
}

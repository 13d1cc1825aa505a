package dto

import (
	"fmt"
	"time"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Name              string     `json:"name"`
	CurrentAmount     string     `json:"current_amount"`
	TargetAmount      string     `json:"target_amount"`
	TargetDate        *time.Time `json:"target_date,omitempty"`
	IsLocked          bool       `json:"is_locked"`
	PenaltyPercentage string     `json:"penalty_percentage"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// WalletFromDomain converts domain wallet to response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:                w.ID,
		UserID:            w.UserID,
		Name:              w.Name,
		CurrentAmount:     w.CurrentAmount.StringFixed(2),
		TargetAmount:      w.TargetAmount.StringFixed(2),
		TargetDate:        w.TargetDate,
		IsLocked:          w.IsLocked,
		PenaltyPercentage: w.PenaltyPercentage.String(),
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse represents a list of wallets.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// RoundUpResponse represents a round-up record in API responses.
type RoundUpResponse struct {
	ID             string    `json:"id"`
	WalletID       string    `json:"wallet_id"`
	TransactionRef *string   `json:"transaction_ref,omitempty"`
	OriginalAmount string    `json:"original_amount"`
	RoundedAmount  string    `json:"rounded_amount"`
	RoundupAmount  string    `json:"roundup_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoundUpFromDomain converts a domain round-up record to response.
func RoundUpFromDomain(r *domain.RoundUpRecord) *RoundUpResponse {
	return &RoundUpResponse{
		ID:             r.ID,
		WalletID:       r.WalletID,
		TransactionRef: r.TransactionRef,
		OriginalAmount: r.OriginalAmount.StringFixed(2),
		RoundedAmount:  r.RoundedAmount.StringFixed(2),
		RoundupAmount:  r.RoundupAmount.StringFixed(2),
		CreatedAt:      r.CreatedAt,
	}
}

// RoundUpsFromDomain converts domain round-up records to responses.
func RoundUpsFromDomain(records []*domain.RoundUpRecord) []*RoundUpResponse {
	result := make([]*RoundUpResponse, len(records))
	for i, r := range records {
		result[i] = RoundUpFromDomain(r)
	}
	return result
}

// PostRoundUpResponse is returned after a round-up is committed.
type PostRoundUpResponse struct {
	Message string           `json:"message"`
	RoundUp *RoundUpResponse `json:"roundup"`
	Balance string           `json:"balance"`
}

// PostRoundUpFromResult converts a round-up result to response.
func PostRoundUpFromResult(result *usecase.PostRoundUpResult) *PostRoundUpResponse {
	return &PostRoundUpResponse{
		Message: fmt.Sprintf("Rounded %s up to %s and saved %s",
			result.Record.OriginalAmount.StringFixed(2),
			result.Record.RoundedAmount.StringFixed(2),
			result.Record.RoundupAmount.StringFixed(2)),
		RoundUp: RoundUpFromDomain(result.Record),
		Balance: result.Balance.StringFixed(2),
	}
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   *string   `json:"account_id,omitempty"`
	WalletID    *string   `json:"wallet_id,omitempty"`
	ExternalID  string    `json:"external_id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain ledger transaction to response.
func TransactionFromDomain(t *domain.LedgerTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		WalletID:    t.WalletID,
		ExternalID:  t.ExternalID,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Category:    t.Category,
		OccurredAt:  t.OccurredAt,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain ledger transactions to responses.
func TransactionsFromDomain(txns []*domain.LedgerTransaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// IngestTransactionResponse is returned after a spending event is ingested.
type IngestTransactionResponse struct {
	Message     string               `json:"message"`
	Duplicate   bool                 `json:"duplicate"`
	Transaction *TransactionResponse `json:"transaction"`
	RoundUp     *RoundUpResponse     `json:"roundup,omitempty"`
	Balance     string               `json:"balance,omitempty"`
}

// IngestTransactionFromResult converts an ingestion result to response.
func IngestTransactionFromResult(result *usecase.IngestSpendingResult) *IngestTransactionResponse {
	resp := &IngestTransactionResponse{
		Duplicate:   result.Duplicate,
		Transaction: TransactionFromDomain(result.Transaction),
	}

	switch {
	case result.Duplicate:
		resp.Message = fmt.Sprintf("Transaction %s was already recorded", result.Transaction.ExternalID)
	case result.RoundUp != nil:
		resp.RoundUp = RoundUpFromDomain(result.RoundUp)
		resp.Balance = result.Balance.StringFixed(2)
		resp.Message = fmt.Sprintf("Recorded spend and saved %s", result.RoundUp.RoundupAmount.StringFixed(2))
	default:
		resp.Message = "Recorded spend; no round-up needed"
	}

	return resp
}

// LockStatusResponse represents the lock state of a wallet.
type LockStatusResponse struct {
	WalletID             string     `json:"wallet_id"`
	State                string     `json:"state"`
	TargetDate           *time.Time `json:"target_date,omitempty"`
	DaysRemaining        int        `json:"days_remaining"`
	CanWithdrawNoPenalty bool       `json:"can_withdraw_without_penalty"`
	PenaltyPercentage    string     `json:"penalty_percentage"`
	PenaltyIfUnlockedNow string     `json:"penalty_if_unlocked_now"`
	CurrentAmount        string     `json:"current_amount"`
}

// LockStatusFromDomain converts a lock status to response.
func LockStatusFromDomain(s *domain.LockStatus) *LockStatusResponse {
	return &LockStatusResponse{
		WalletID:             s.WalletID,
		State:                string(s.State),
		TargetDate:           s.TargetDate,
		DaysRemaining:        s.DaysRemaining,
		CanWithdrawNoPenalty: s.CanWithdrawNoPenalty,
		PenaltyPercentage:    s.PenaltyPercentage.String(),
		PenaltyIfUnlockedNow: s.PenaltyIfUnlockedNow.StringFixed(2),
		CurrentAmount:        s.CurrentAmount.StringFixed(2),
	}
}

// LockResponse is returned after a wallet is locked.
type LockResponse struct {
	Message string          `json:"message"`
	Wallet  *WalletResponse `json:"wallet"`
}

// LockFromDomain converts a locked wallet to response.
func LockFromDomain(w *domain.Wallet) *LockResponse {
	msg := "Wallet locked"
	if w.TargetDate != nil {
		msg = fmt.Sprintf("Wallet locked until %s with a %s%% early-withdrawal penalty",
			w.TargetDate.Format(time.DateOnly), w.PenaltyPercentage.String())
	}
	return &LockResponse{Message: msg, Wallet: WalletFromDomain(w)}
}

// UnlockResponse is returned after a wallet is unlocked.
type UnlockResponse struct {
	Message       string          `json:"message"`
	Early         bool            `json:"early"`
	PenaltyAmount string          `json:"penalty_amount"`
	Wallet        *WalletResponse `json:"wallet"`
}

// UnlockFromDomain converts an unlock result to response.
func UnlockFromDomain(r *domain.UnlockResult) *UnlockResponse {
	msg := "Wallet unlocked without penalty"
	if r.Early {
		msg = fmt.Sprintf("Wallet unlocked early; penalty of %s deducted", r.PenaltyAmount.StringFixed(2))
	}
	return &UnlockResponse{
		Message:       msg,
		Early:         r.Early,
		PenaltyAmount: r.PenaltyAmount.StringFixed(2),
		Wallet:        WalletFromDomain(r.Wallet),
	}
}

// ReconciliationResponse represents a wallet balance breakdown.
type ReconciliationResponse struct {
	WalletID       string    `json:"wallet_id"`
	CurrentAmount  string    `json:"current_amount"`
	RoundUps       string    `json:"roundups"`
	AutoDeductions string    `json:"auto_deductions"`
	Penalties      string    `json:"penalties"`
	Unattributed   string    `json:"unattributed"`
	CheckedAt      time.Time `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation to response.
func ReconciliationFromUseCase(r *usecase.WalletReconciliation) *ReconciliationResponse {
	return &ReconciliationResponse{
		WalletID:       r.WalletID,
		CurrentAmount:  r.CurrentAmount.StringFixed(2),
		RoundUps:       r.RoundUps.StringFixed(2),
		AutoDeductions: r.AutoDeductions.StringFixed(2),
		Penalties:      r.Penalties.StringFixed(2),
		Unattributed:   r.Unattributed.StringFixed(2),
		CheckedAt:      r.CheckedAt,
	}
}

// ScheduleResponse represents an auto-deduction schedule in API responses.
type ScheduleResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WalletID    string    `json:"wallet_id"`
	Amount      string    `json:"amount"`
	Frequency   string    `json:"frequency"`
	NextDueDate time.Time `json:"next_due_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScheduleFromDomain converts a domain schedule to response.
func ScheduleFromDomain(s *domain.AutoDeductionSchedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		WalletID:    s.WalletID,
		Amount:      s.Amount.StringFixed(2),
		Frequency:   string(s.Frequency),
		NextDueDate: s.NextDueDate,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SchedulesFromDomain converts domain schedules to responses.
func SchedulesFromDomain(schedules []*domain.AutoDeductionSchedule) []*ScheduleResponse {
	result := make([]*ScheduleResponse, len(schedules))
	for i, s := range schedules {
		result[i] = ScheduleFromDomain(s)
	}
	return result
}

// ProcessedItemResponse represents one schedule outcome of a batch.
type ProcessedItemResponse struct {
	ScheduleID      string     `json:"schedule_id"`
	UserID          string     `json:"user_id"`
	WalletID        string     `json:"wallet_id"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	PreviousDueDate time.Time  `json:"previous_due_date"`
	NextDueDate     *time.Time `json:"next_due_date,omitempty"`
	ExternalID      string     `json:"external_id,omitempty"`
	Error           string     `json:"error,omitempty"`
}

func processedItemsFromDomain(items []domain.ProcessedItem) []ProcessedItemResponse {
	result := make([]ProcessedItemResponse, len(items))
	for i, item := range items {
		result[i] = ProcessedItemResponse{
			ScheduleID:      item.ScheduleID,
			UserID:          item.UserID,
			WalletID:        item.WalletID,
			Amount:          item.Amount.StringFixed(2),
			Status:          string(item.Status),
			PreviousDueDate: item.PreviousDueDate,
			NextDueDate:     item.NextDueDate,
			ExternalID:      item.ExternalID,
			Error:           item.Error,
		}
	}
	return result
}

// ProcessingSummaryResponse represents the result of a deduction batch.
type ProcessingSummaryResponse struct {
	Message        string                  `json:"message"`
	ProcessedAt    time.Time               `json:"processed_at"`
	Contended      bool                    `json:"contended"`
	Total          int                     `json:"total"`
	CreditedAmount string                  `json:"credited_amount"`
	Succeeded      []ProcessedItemResponse `json:"succeeded"`
	Failed         []ProcessedItemResponse `json:"failed"`
	Skipped        []ProcessedItemResponse `json:"skipped"`
}

// ProcessingSummaryFromDomain converts a processing summary to response.
func ProcessingSummaryFromDomain(s *domain.ProcessingSummary) *ProcessingSummaryResponse {
	msg := fmt.Sprintf("Processed %d schedules: %d succeeded, %d failed, %d skipped",
		s.Total(), len(s.Succeeded), len(s.Failed), len(s.Skipped))
	if s.Contended {
		msg = "Another deduction batch is running; nothing processed"
	}

	return &ProcessingSummaryResponse{
		Message:        msg,
		ProcessedAt:    s.ProcessedAt,
		Contended:      s.Contended,
		Total:          s.Total(),
		CreditedAmount: s.CreditedAmount().StringFixed(2),
		Succeeded:      processedItemsFromDomain(s.Succeeded),
		Failed:         processedItemsFromDomain(s.Failed),
		Skipped:        processedItemsFromDomain(s.Skipped),
	}
}

// UpcomingScheduleResponse represents one upcoming deduction.
type UpcomingScheduleResponse struct {
	ScheduleResponse
	WalletName string `json:"wallet_name"`
	Overdue    bool   `json:"overdue"`
}

// UpcomingResponse represents the upcoming-deductions report.
type UpcomingResponse struct {
	GeneratedAt  time.Time                  `json:"generated_at"`
	Until        time.Time                  `json:"until"`
	OverdueCount int64                      `json:"overdue_count"`
	Schedules    []UpcomingScheduleResponse `json:"schedules"`
}

// UpcomingFromReport converts an upcoming report to response.
func UpcomingFromReport(r *usecase.UpcomingReport) *UpcomingResponse {
	schedules := make([]UpcomingScheduleResponse, len(r.Schedules))
	for i, s := range r.Schedules {
		schedules[i] = UpcomingScheduleResponse{
			ScheduleResponse: *ScheduleFromDomain(s.Schedule),
			WalletName:       s.WalletName,
			Overdue:          s.Overdue,
		}
	}

	return &UpcomingResponse{
		GeneratedAt:  r.GeneratedAt,
		Until:        r.Until,
		OverdueCount: r.OverdueCount,
		Schedules:    schedules,
	}
}

// StatsResponse represents aggregate schedule statistics.
type StatsResponse struct {
	ActiveSchedules int64  `json:"active_schedules"`
	TotalAmount     string `json:"total_amount"`
	DistinctUsers   int64  `json:"distinct_users"`
	OverdueCount    int64  `json:"overdue_count"`
}

// StatsFromDomain converts schedule stats to response.
func StatsFromDomain(s *domain.ScheduleStats) *StatsResponse {
	return &StatsResponse{
		ActiveSchedules: s.ActiveSchedules,
		TotalAmount:     s.TotalAmount.StringFixed(2),
		DistinctUsers:   s.DistinctUsers,
		OverdueCount:    s.OverdueCount,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
)

// ReconciliationUseCase explains a wallet balance from its audit trail.
type ReconciliationUseCase struct {
	walletRepo  WalletRepository
	roundUpRepo RoundUpRepository
	txnRepo     LedgerTransactionRepository
	clock       Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	walletRepo WalletRepository,
	roundUpRepo RoundUpRepository,
	txnRepo LedgerTransactionRepository,
	clock Clock,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo:  walletRepo,
		roundUpRepo: roundUpRepo,
		txnRepo:     txnRepo,
		clock:       clock,
	}
}

// WalletReconciliation breaks the current balance down by source.
// CurrentAmount = RoundUps + AutoDeductions - Penalties + Unattributed.
type WalletReconciliation struct {
	WalletID       string
	CurrentAmount  decimal.Decimal
	RoundUps       decimal.Decimal
	AutoDeductions decimal.Decimal
	Penalties      decimal.Decimal
	// Unattributed covers manual deposits and anything else without an audit row.
	Unattributed decimal.Decimal
	CheckedAt    time.Time
}

// ReconcileWallet computes the balance breakdown of a wallet owned by userID.
func (uc *ReconciliationUseCase) ReconcileWallet(ctx context.Context, userID, walletID string) (*WalletReconciliation, error) {
	wallet, err := uc.walletRepo.GetForUser(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	roundUps, err := uc.roundUpRepo.SumByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	// Ledger rows are signed from the bank account's side, so credits are negated.
	deductions, err := uc.txnRepo.SumByWalletAndCategory(ctx, walletID, domain.CategoryAutoDeduction)
	if err != nil {
		return nil, err
	}

	penalties, err := uc.txnRepo.SumByWalletAndCategory(ctx, walletID, domain.CategoryEarlyWithdrawalPenalty)
	if err != nil {
		return nil, err
	}

	result := &WalletReconciliation{
		WalletID:       wallet.ID,
		CurrentAmount:  wallet.CurrentAmount,
		RoundUps:       roundUps,
		AutoDeductions: deductions.Neg(),
		Penalties:      penalties.Neg(),
		CheckedAt:      uc.clock.Now().UTC(),
	}
	result.Unattributed = result.CurrentAmount.
		Sub(result.RoundUps).
		Sub(result.AutoDeductions).
		Add(result.Penalties)

	return result, nil
}

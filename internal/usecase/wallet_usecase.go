package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
)

// WalletUseCase handles wallet creation and queries.
type WalletUseCase struct {
	walletRepo WalletRepository
	idGen      IDGenerator
	clock      Clock
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository, idGen IDGenerator, clock Clock) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
		idGen:      idGen,
		clock:      clock,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	UserID       string
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
}

// CreateWallet creates an unlocked wallet with a zero balance.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateWalletName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateTargetAmount(input.TargetAmount); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	wallet := &domain.Wallet{
		ID:                uc.idGen.Generate(),
		UserID:            input.UserID,
		Name:              strings.TrimSpace(input.Name),
		CurrentAmount:     decimal.Zero,
		TargetAmount:      input.TargetAmount,
		TargetDate:        input.TargetDate,
		IsLocked:          false,
		PenaltyPercentage: domain.DefaultPenaltyPercentage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetWallet retrieves a wallet owned by userID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	return uc.walletRepo.GetForUser(ctx, userID, walletID)
}

// ListWallets lists the wallets of a user.
func (uc *WalletUseCase) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByUser(ctx, userID)
}

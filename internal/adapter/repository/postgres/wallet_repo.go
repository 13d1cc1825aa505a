package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/postgres/generated"
	"github.com/iho/autosave/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db generated.DBTX) *WalletRepository {
	return &WalletRepository{queries: generated.New(db)}
}

// Create inserts a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	err := r.queries.CreateWallet(ctx, generated.CreateWalletParams{
		ID:                wallet.ID,
		UserID:            wallet.UserID,
		Name:              wallet.Name,
		CurrentAmount:     decimalToNumeric(wallet.CurrentAmount),
		TargetAmount:      decimalToNumeric(wallet.TargetAmount),
		TargetDate:        optionalTimeToPg(wallet.TargetDate),
		IsLocked:          wallet.IsLocked,
		PenaltyPercentage: decimalToNumeric(wallet.PenaltyPercentage),
		CreatedAt:         timeToPgTimestamptz(wallet.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(wallet.UpdatedAt),
	})
	if err != nil {
		return storeErr("create wallet", err)
	}

	return nil
}

// GetForUser retrieves a wallet owned by userID.
func (r *WalletRepository) GetForUser(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletForUser(ctx, generated.GetWalletForUserParams{ID: walletID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, storeErr("get wallet", err)
	}

	return rowToWallet(row), nil
}

// GetForUpdate retrieves a wallet owned by userID with a FOR UPDATE lock.
func (r *WalletRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, walletID string) (*domain.Wallet, error) {
	queries := queriesFor(tx, r.queries)

	row, err := queries.GetWalletForUpdate(ctx, generated.GetWalletForUpdateParams{ID: walletID, UserID: userID})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, storeErr("lock wallet", err)
	}

	return rowToWallet(row), nil
}

// ListByUser lists a user's wallets oldest first.
func (r *WalletRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	rows, err := r.queries.ListWalletsByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list wallets", err)
	}

	wallets := make([]*domain.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, rowToWallet(row))
	}

	return wallets, nil
}

// IncrementBalance adds delta to the stored balance in a single statement.
func (r *WalletRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, walletID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	queries := queriesFor(tx, r.queries)

	balance, err := queries.IncrementWalletBalance(ctx, generated.IncrementWalletBalanceParams{
		ID:            walletID,
		CurrentAmount: decimalToNumeric(delta),
		UpdatedAt:     timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, domain.ErrWalletNotFound
		}

		return decimal.Zero, storeErr("increment wallet balance", err)
	}

	return numericToDecimal(balance), nil
}

// UpdateLock writes the lock columns of a wallet.
func (r *WalletRepository) UpdateLock(ctx context.Context, tx usecase.Transaction, walletID string, lock usecase.WalletLockUpdate) error {
	queries := queriesFor(tx, r.queries)

	n, err := queries.UpdateWalletLock(ctx, generated.UpdateWalletLockParams{
		ID:                walletID,
		IsLocked:          lock.IsLocked,
		TargetDate:        optionalTimeToPg(lock.TargetDate),
		PenaltyPercentage: decimalToNumeric(lock.PenaltyPercentage),
		UpdatedAt:         timeToPgTimestamptz(lock.UpdatedAt),
	})
	if err != nil {
		return storeErr("update wallet lock", err)
	}
	if n == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func rowToWallet(row generated.Wallet) *domain.Wallet {
	return &domain.Wallet{
		ID:                row.ID,
		UserID:            row.UserID,
		Name:              row.Name,
		CurrentAmount:     numericToDecimal(row.CurrentAmount),
		TargetAmount:      numericToDecimal(row.TargetAmount),
		TargetDate:        pgTimestamptzToPtr(row.TargetDate),
		IsLocked:          row.IsLocked,
		PenaltyPercentage: numericToDecimal(row.PenaltyPercentage),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}

package postgres

import (
	"context"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/postgres/generated"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	queries *generated.Queries
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(db generated.DBTX) *BankAccountRepository {
	return &BankAccountRepository{queries: generated.New(db)}
}

// Create links a bank account. Used by seeding and tests; linking itself happens upstream.
func (r *BankAccountRepository) Create(ctx context.Context, account *domain.LinkedBankAccount) error {
	err := r.queries.CreateLinkedBankAccount(ctx, generated.CreateLinkedBankAccountParams{
		ID:                 account.ID,
		UserID:             account.UserID,
		InstitutionName:    account.InstitutionName,
		AccountMask:        account.AccountMask,
		TransferCredential: account.TransferCredential,
		IsActive:           account.IsActive,
		CreatedAt:          timeToPgTimestamptz(account.CreatedAt),
	})
	if err != nil {
		return storeErr("create bank account", err)
	}

	return nil
}

// GetFirstActiveByUser returns the user's earliest linked active account.
func (r *BankAccountRepository) GetFirstActiveByUser(ctx context.Context, userID string) (*domain.LinkedBankAccount, error) {
	row, err := r.queries.GetFirstActiveBankAccount(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, storeErr("get bank account", err)
	}

	return &domain.LinkedBankAccount{
		ID:                 row.ID,
		UserID:             row.UserID,
		InstitutionName:    row.InstitutionName,
		AccountMask:        row.AccountMask,
		TransferCredential: row.TransferCredential,
		IsActive:           row.IsActive,
		CreatedAt:          row.CreatedAt.Time,
	}, nil
}

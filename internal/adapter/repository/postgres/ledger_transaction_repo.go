package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/postgres/generated"
	"github.com/iho/autosave/internal/usecase"
)

// LedgerTransactionRepository implements usecase.LedgerTransactionRepository.
type LedgerTransactionRepository struct {
	queries *generated.Queries
}

// NewLedgerTransactionRepository creates a new LedgerTransactionRepository.
func NewLedgerTransactionRepository(db generated.DBTX) *LedgerTransactionRepository {
	return &LedgerTransactionRepository{queries: generated.New(db)}
}

// Insert writes the row with ON CONFLICT (external_id) DO NOTHING.
func (r *LedgerTransactionRepository) Insert(ctx context.Context, tx usecase.Transaction, txn *domain.LedgerTransaction) (bool, error) {
	queries := queriesFor(tx, r.queries)

	n, err := queries.InsertLedgerTransaction(ctx, generated.InsertLedgerTransactionParams{
		ID:          txn.ID,
		UserID:      txn.UserID,
		AccountID:   stringToPgText(txn.AccountID),
		WalletID:    stringToPgText(txn.WalletID),
		ExternalID:  txn.ExternalID,
		Amount:      decimalToNumeric(txn.Amount),
		Description: txn.Description,
		Category:    txn.Category,
		OccurredAt:  timeToPgTimestamptz(txn.OccurredAt),
		CreatedAt:   timeToPgTimestamptz(txn.CreatedAt),
	})
	if err != nil {
		return false, storeErr("insert ledger transaction", err)
	}

	return n > 0, nil
}

// GetByExternalID retrieves the transaction stored under an external id.
func (r *LedgerTransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.LedgerTransaction, error) {
	row, err := r.queries.GetLedgerTransactionByExternalID(ctx, externalID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, storeErr("get ledger transaction", err)
	}

	return rowToLedgerTransaction(row), nil
}

// ListByUser lists a user's transactions, most recent first.
func (r *LedgerTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error) {
	rows, err := r.queries.ListLedgerTransactionsByUser(ctx, generated.ListLedgerTransactionsByUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, storeErr("list ledger transactions", err)
	}

	txns := make([]*domain.LedgerTransaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToLedgerTransaction(row))
	}

	return txns, nil
}

// SumByWalletAndCategory totals signed amounts of one category for a wallet.
func (r *LedgerTransactionRepository) SumByWalletAndCategory(ctx context.Context, walletID, category string) (decimal.Decimal, error) {
	total, err := r.queries.SumLedgerTransactionsByWalletAndCategory(ctx, generated.SumLedgerTransactionsByWalletAndCategoryParams{
		WalletID: pgtype.Text{String: walletID, Valid: true},
		Category: category,
	})
	if err != nil {
		return decimal.Zero, storeErr("sum ledger transactions", err)
	}

	return numericToDecimal(total), nil
}

func rowToLedgerTransaction(row generated.LedgerTransaction) *domain.LedgerTransaction {
	return &domain.LedgerTransaction{
		ID:          row.ID,
		UserID:      row.UserID,
		AccountID:   pgTextToPtr(row.AccountID),
		WalletID:    pgTextToPtr(row.WalletID),
		ExternalID:  row.ExternalID,
		Amount:      numericToDecimal(row.Amount),
		Description: row.Description,
		Category:    row.Category,
		OccurredAt:  row.OccurredAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}
}

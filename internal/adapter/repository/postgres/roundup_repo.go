package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/infrastructure/postgres/generated"
	"github.com/iho/autosave/internal/usecase"
)

// RoundUpRepository implements usecase.RoundUpRepository.
type RoundUpRepository struct {
	queries *generated.Queries
}

// NewRoundUpRepository creates a new RoundUpRepository.
func NewRoundUpRepository(db generated.DBTX) *RoundUpRepository {
	return &RoundUpRepository{queries: generated.New(db)}
}

// Create inserts a round-up record within a transaction.
func (r *RoundUpRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.RoundUpRecord) error {
	queries := queriesFor(tx, r.queries)

	err := queries.CreateRoundUpRecord(ctx, generated.CreateRoundUpRecordParams{
		ID:             record.ID,
		UserID:         record.UserID,
		WalletID:       record.WalletID,
		TransactionRef: stringToPgText(record.TransactionRef),
		OriginalAmount: decimalToNumeric(record.OriginalAmount),
		RoundedAmount:  decimalToNumeric(record.RoundedAmount),
		RoundupAmount:  decimalToNumeric(record.RoundupAmount),
		CreatedAt:      timeToPgTimestamptz(record.CreatedAt),
	})
	if err != nil {
		return storeErr("create round-up", err)
	}

	return nil
}

// ListByWallet lists round-ups newest first.
func (r *RoundUpRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error) {
	rows, err := r.queries.ListRoundUpsByWallet(ctx, generated.ListRoundUpsByWalletParams{
		WalletID: walletID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, storeErr("list round-ups", err)
	}

	records := make([]*domain.RoundUpRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.RoundUpRecord{
			ID:             row.ID,
			UserID:         row.UserID,
			WalletID:       row.WalletID,
			TransactionRef: pgTextToPtr(row.TransactionRef),
			OriginalAmount: numericToDecimal(row.OriginalAmount),
			RoundedAmount:  numericToDecimal(row.RoundedAmount),
			RoundupAmount:  numericToDecimal(row.RoundupAmount),
			CreatedAt:      row.CreatedAt.Time,
		})
	}

	return records, nil
}

// SumByWallet totals the round-ups credited to a wallet.
func (r *RoundUpRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error) {
	total, err := r.queries.SumRoundUpsByWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, storeErr("sum round-ups", err)
	}

	return numericToDecimal(total), nil
}

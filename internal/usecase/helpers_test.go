package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
	"github.com/iho/autosave/internal/usecase/mocks"
)

var baseTime = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *mocks.Store
	clock    *mocks.FakeClock
	ids      *mocks.MockIDGenerator
	transfer *mocks.StubTransfer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		store:    mocks.NewStore(),
		clock:    mocks.NewFakeClock(baseTime),
		ids:      mocks.NewMockIDGenerator(),
		transfer: mocks.NewStubTransfer(),
	}
}

func (f *fixture) processor(opts ...func(*usecase.DeductionProcessorDeps)) *usecase.DeductionProcessor {
	deps := usecase.DeductionProcessorDeps{
		TxManager:    f.store.TxManager,
		WalletRepo:   f.store.Wallets,
		ScheduleRepo: f.store.Schedules,
		TxnRepo:      f.store.Transactions,
		OutboxRepo:   f.store.Outbox,
		Transfer:     f.transfer,
		IDGen:        f.ids,
		Logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return usecase.NewDeductionProcessor(deps)
}

func (f *fixture) roundUps() *usecase.RoundUpUseCase {
	return usecase.NewRoundUpUseCase(usecase.RoundUpDeps{
		TxManager:   f.store.TxManager,
		WalletRepo:  f.store.Wallets,
		RoundUpRepo: f.store.RoundUps,
		TxnRepo:     f.store.Transactions,
		OutboxRepo:  f.store.Outbox,
		IDGen:       f.ids,
		Clock:       f.clock,
		Logger:      zerolog.Nop(),
	})
}

func (f *fixture) locks() *usecase.LockUseCase {
	return usecase.NewLockUseCase(
		f.store.TxManager,
		f.store.Wallets,
		f.store.Transactions,
		f.store.Outbox,
		nil,
		f.ids,
		f.clock,
		nil,
		zerolog.Nop(),
	)
}

func (f *fixture) schedules() *usecase.ScheduleUseCase {
	return usecase.NewScheduleUseCase(
		f.store.TxManager,
		f.store.Wallets,
		f.store.Schedules,
		f.store.Outbox,
		f.ids,
		f.clock,
		zerolog.Nop(),
	)
}

func (f *fixture) addWallet(t *testing.T, id, userID string, balance decimal.Decimal) {
	t.Helper()
	err := f.store.Wallets.Create(context.Background(), &domain.Wallet{
		ID:                id,
		UserID:            userID,
		Name:              "Holiday",
		CurrentAmount:     balance,
		PenaltyPercentage: domain.DefaultPenaltyPercentage,
		CreatedAt:         baseTime.Add(-30 * 24 * time.Hour),
		UpdatedAt:         baseTime.Add(-30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to seed wallet: %v", err)
	}
}

func (f *fixture) addAccount(t *testing.T, id, userID, credential string) {
	t.Helper()
	err := f.store.BankAccounts.Create(context.Background(), &domain.LinkedBankAccount{
		ID:                 id,
		UserID:             userID,
		InstitutionName:    "First Bank",
		AccountMask:        "****1234",
		TransferCredential: credential,
		IsActive:           true,
		CreatedAt:          baseTime.Add(-30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to seed bank account: %v", err)
	}
}

func (f *fixture) addSchedule(t *testing.T, id, userID, walletID string, amount int64, freq domain.Frequency, due time.Time) {
	t.Helper()
	err := f.store.Schedules.Create(context.Background(), nil, &domain.AutoDeductionSchedule{
		ID:          id,
		UserID:      userID,
		WalletID:    walletID,
		Amount:      decimal.NewFromInt(amount),
		Frequency:   freq,
		NextDueDate: due,
		IsActive:    true,
		CreatedAt:   baseTime.Add(-30 * 24 * time.Hour),
		UpdatedAt:   baseTime.Add(-30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}
}

func mustWallet(t *testing.T, store *mocks.Store, id string) domain.Wallet {
	t.Helper()
	w, ok := store.Wallet(id)
	if !ok {
		t.Fatalf("wallet %s not found", id)
	}
	return w
}

func mustSchedule(t *testing.T, store *mocks.Store, id string) domain.AutoDeductionSchedule {
	t.Helper()
	s, ok := store.Schedule(id)
	if !ok {
		t.Fatalf("schedule %s not found", id)
	}
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

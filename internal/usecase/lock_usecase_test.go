package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

func TestLockUseCase_Lock(t *testing.T) {
	ten := decimal.NewFromInt(10)
	fiftyOne := decimal.NewFromInt(51)
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		input   usecase.LockInput
		wantErr error
	}{
		{
			name:  "default penalty",
			input: usecase.LockInput{UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(90 * 24 * time.Hour)},
		},
		{
			name:  "explicit penalty",
			input: usecase.LockInput{UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(time.Hour), PenaltyPercentage: &ten},
		},
		{
			name:    "target date now",
			input:   usecase.LockInput{UserID: "u-1", WalletID: "w-1", TargetDate: baseTime},
			wantErr: domain.ErrInvalidTargetDate,
		},
		{
			name:    "penalty above maximum",
			input:   usecase.LockInput{UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(time.Hour), PenaltyPercentage: &fiftyOne},
			wantErr: domain.ErrInvalidPenalty,
		},
		{
			name:    "negative penalty",
			input:   usecase.LockInput{UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(time.Hour), PenaltyPercentage: &negative},
			wantErr: domain.ErrInvalidPenalty,
		},
		{
			name:    "unknown wallet",
			input:   usecase.LockInput{UserID: "u-1", WalletID: "w-9", TargetDate: baseTime.Add(time.Hour)},
			wantErr: domain.ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(100))

			wallet, err := f.locks().Lock(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, mustWallet(t, f.store, "w-1").IsLocked)
				assert.Empty(t, f.store.Events())
				return
			}

			require.NoError(t, err)
			assert.True(t, wallet.IsLocked)

			stored := mustWallet(t, f.store, "w-1")
			assert.True(t, stored.IsLocked)
			require.NotNil(t, stored.TargetDate)
			assert.Equal(t, tt.input.TargetDate, *stored.TargetDate)
			assert.True(t, stored.PenaltyPercentage.Equal(domain.DefaultPenaltyPercentage))

			events := f.store.Events()
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventTypeWalletLocked, events[0].EventType)
		})
	}
}

func TestLockUseCase_RelockCannotWeaken(t *testing.T) {
	f := newFixture(t)
	f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(100))
	uc := f.locks()
	twenty := decimal.NewFromInt(20)
	five := decimal.NewFromInt(5)

	_, err := uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(60 * 24 * time.Hour), PenaltyPercentage: &twenty,
	})
	require.NoError(t, err)

	_, err = uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(30 * 24 * time.Hour), PenaltyPercentage: &twenty,
	})
	assert.ErrorIs(t, err, domain.ErrLockWeakening)

	_, err = uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(90 * 24 * time.Hour), PenaltyPercentage: &five,
	})
	assert.ErrorIs(t, err, domain.ErrLockWeakening)

	extended, err := uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(90 * 24 * time.Hour), PenaltyPercentage: &twenty,
	})
	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(90*24*time.Hour), *extended.TargetDate)
}

func TestLockUseCase_EarlyUnlockAppliesPenalty(t *testing.T) {
	f := newFixture(t)
	f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(1000))
	uc := f.locks()

	_, err := uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	result, err := uc.Unlock(context.Background(), "u-1", "w-1")
	require.NoError(t, err)

	assert.True(t, result.Early)
	assert.True(t, result.PenaltyAmount.Equal(decimal.NewFromInt(100)), "penalty %s", result.PenaltyAmount)
	assert.True(t, result.Wallet.CurrentAmount.Equal(decimal.NewFromInt(900)))
	assert.False(t, result.Wallet.IsLocked)

	stored := mustWallet(t, f.store, "w-1")
	assert.True(t, stored.CurrentAmount.Equal(decimal.NewFromInt(900)))
	assert.False(t, stored.IsLocked)

	txns := f.store.LedgerTransactions()
	require.Len(t, txns, 1)
	assert.Equal(t, domain.CategoryEarlyWithdrawalPenalty, txns[0].Category)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(-100)))
	assert.Nil(t, txns[0].AccountID)
	require.NotNil(t, txns[0].WalletID)
	assert.Equal(t, "w-1", *txns[0].WalletID)
}

func TestLockUseCase_GraceUnlock(t *testing.T) {
	tests := []struct {
		name string
		lock bool
	}{
		{name: "target date reached", lock: true},
		{name: "wallet not locked", lock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(1000))
			uc := f.locks()
			fifty := decimal.NewFromInt(50)

			if tt.lock {
				_, err := uc.Lock(context.Background(), usecase.LockInput{
					UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(24 * time.Hour), PenaltyPercentage: &fifty,
				})
				require.NoError(t, err)
				f.clock.Advance(48 * time.Hour)
			}

			result, err := uc.Unlock(context.Background(), "u-1", "w-1")
			require.NoError(t, err)

			assert.False(t, result.Early)
			assert.True(t, result.PenaltyAmount.IsZero())
			assert.True(t, mustWallet(t, f.store, "w-1").CurrentAmount.Equal(decimal.NewFromInt(1000)))
			assert.Empty(t, f.store.LedgerTransactions())
		})
	}
}

func TestLockUseCase_FailedPenaltyInsertKeepsLock(t *testing.T) {
	f := newFixture(t)
	f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(1000))
	uc := f.locks()

	_, err := uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	f.store.Transactions.InsertFunc = func(context.Context, usecase.Transaction, *domain.LedgerTransaction) (bool, error) {
		return false, domain.ErrPersistence
	}

	_, err = uc.Unlock(context.Background(), "u-1", "w-1")
	require.ErrorIs(t, err, domain.ErrPersistence)

	stored := mustWallet(t, f.store, "w-1")
	assert.True(t, stored.IsLocked)
	assert.True(t, stored.CurrentAmount.Equal(decimal.NewFromInt(1000)))
}

func TestLockUseCase_Status(t *testing.T) {
	f := newFixture(t)
	f.addWallet(t, "w-1", "u-1", decimal.NewFromInt(200))
	uc := f.locks()

	_, err := uc.Lock(context.Background(), usecase.LockInput{
		UserID: "u-1", WalletID: "w-1", TargetDate: baseTime.Add(36 * time.Hour),
	})
	require.NoError(t, err)

	status, err := uc.Status(context.Background(), "u-1", "w-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LockStateLocked, status.State)
	assert.Equal(t, 2, status.DaysRemaining)
	assert.False(t, status.CanWithdrawNoPenalty)
	assert.True(t, status.PenaltyIfUnlockedNow.Equal(decimal.NewFromInt(20)))

	// Status must not change anything.
	stored := mustWallet(t, f.store, "w-1")
	assert.True(t, stored.IsLocked)
	assert.True(t, stored.CurrentAmount.Equal(decimal.NewFromInt(200)))

	_, err = uc.Status(context.Background(), "u-2", "w-1")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

func TestLockHandler_Lock(t *testing.T) {
	target := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	var captured usecase.LockInput
	h := NewLockHandler(&lockServiceStub{
		lockFn: func(ctx context.Context, input usecase.LockInput) (*domain.Wallet, error) {
			captured = input
			return &domain.Wallet{ID: "w-1", IsLocked: true, TargetDate: &input.TargetDate, PenaltyPercentage: *input.PenaltyPercentage}, nil
		},
	})

	rec := serve(http.MethodPost, "/users/{userID}/wallets/{walletID}/lock", "/users/u-1/wallets/w-1/lock",
		`{"target_date":"2027-01-01T00:00:00Z","penalty_percentage":"15"}`, h.Lock)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.TargetDate.Equal(target) || !captured.PenaltyPercentage.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected input: %+v", captured)
	}

	resp := decodeBody[dto.LockResponse](t, rec)
	if !resp.Wallet.IsLocked || resp.Message != "Wallet locked until 2027-01-01 with a 15% early-withdrawal penalty" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLockHandler_Lock_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "missing target date", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "weakening", body: `{"target_date":"2027-01-01T00:00:00Z"}`, err: domain.ErrLockWeakening, wantStatus: http.StatusBadRequest},
		{name: "penalty too high", body: `{"target_date":"2027-01-01T00:00:00Z","penalty_percentage":"60"}`, err: domain.ErrInvalidPenalty, wantStatus: http.StatusBadRequest},
		{name: "unknown wallet", body: `{"target_date":"2027-01-01T00:00:00Z"}`, err: domain.ErrWalletNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLockHandler(&lockServiceStub{
				lockFn: func(ctx context.Context, input usecase.LockInput) (*domain.Wallet, error) {
					if tt.err == nil {
						t.Fatal("Lock should not be called")
					}
					return nil, tt.err
				},
			})

			rec := serve(http.MethodPost, "/users/{userID}/wallets/{walletID}/lock", "/users/u-1/wallets/w-1/lock", tt.body, h.Lock)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestLockHandler_Unlock(t *testing.T) {
	h := NewLockHandler(&lockServiceStub{
		unlockFn: func(ctx context.Context, userID, walletID string) (*domain.UnlockResult, error) {
			return &domain.UnlockResult{
				Wallet:        &domain.Wallet{ID: walletID, CurrentAmount: decimal.NewFromInt(900)},
				Early:         true,
				PenaltyAmount: decimal.NewFromInt(100),
			}, nil
		},
	})

	rec := serve(http.MethodPost, "/users/{userID}/wallets/{walletID}/unlock", "/users/u-1/wallets/w-1/unlock", "", h.Unlock)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody[dto.UnlockResponse](t, rec)
	if !resp.Early || resp.PenaltyAmount != "100.00" || resp.Wallet.CurrentAmount != "900.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLockHandler_Status(t *testing.T) {
	h := NewLockHandler(&lockServiceStub{
		statusFn: func(ctx context.Context, userID, walletID string) (*domain.LockStatus, error) {
			return &domain.LockStatus{
				WalletID:             walletID,
				State:                domain.LockStateLocked,
				DaysRemaining:        2,
				PenaltyPercentage:    decimal.NewFromInt(10),
				PenaltyIfUnlockedNow: decimal.NewFromInt(20),
				CurrentAmount:        decimal.NewFromInt(200),
			}, nil
		},
	})

	rec := serve(http.MethodGet, "/users/{userID}/wallets/{walletID}/lock", "/users/u-1/wallets/w-1/lock", "", h.Status)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody[dto.LockStatusResponse](t, rec)
	if resp.State != "locked" || resp.DaysRemaining != 2 || resp.PenaltyIfUnlockedNow != "20.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

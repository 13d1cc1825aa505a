package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
)

func TestPostRoundUpRequest_ToUseCaseInput(t *testing.T) {
	ref := "card-1"
	req := &PostRoundUpRequest{OriginalAmount: "4.35", Unit: "5", TransactionRef: &ref}

	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got, err := req.ToUseCaseInput("u-1", "w-1")
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}
	if got.UserID != "u-1" || got.WalletID != "w-1" || got.TransactionRef != &ref {
		t.Fatalf("unexpected ids: %+v", got)
	}
	if !got.OriginalAmount.Equal(decimal.RequireFromString("4.35")) || !got.Unit.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected amounts: %+v", got)
	}
}

func TestPostRoundUpRequest_DefaultUnitIsZero(t *testing.T) {
	req := &PostRoundUpRequest{OriginalAmount: "4.35"}

	got, err := req.ToUseCaseInput("u-1", "w-1")
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}
	if !got.Unit.IsZero() {
		t.Fatalf("expected zero unit so the configured default applies, got %s", got.Unit)
	}
}

func TestRequestValidation(t *testing.T) {
	yes := true
	bad := "yearly"
	neg := "-3"
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr error
	}{
		{"wallet ok", &CreateWalletRequest{Name: "Holiday", TargetAmount: "0"}, nil},
		{"wallet empty name", &CreateWalletRequest{Name: "  "}, domain.ErrInvalidWalletName},
		{"wallet negative target", &CreateWalletRequest{Name: "Holiday", TargetAmount: "-1"}, domain.ErrInvalidTargetAmount},
		{"wallet bad target", &CreateWalletRequest{Name: "Holiday", TargetAmount: "ten"}, domain.ErrValidation},
		{"roundup missing amount", &PostRoundUpRequest{}, domain.ErrValidation},
		{"roundup negative amount", &PostRoundUpRequest{OriginalAmount: "-1"}, domain.ErrInvalidAmount},
		{"roundup zero unit", &PostRoundUpRequest{OriginalAmount: "1.5", Unit: "0"}, domain.ErrInvalidAmount},
		{"roundup sub-cent amount", &PostRoundUpRequest{OriginalAmount: "4.355", Unit: "1"}, domain.ErrInvalidAmount},
		{"roundup sub-cent unit", &PostRoundUpRequest{OriginalAmount: "4.35", Unit: "0.007"}, domain.ErrInvalidAmount},
		{"roundup trailing zeros", &PostRoundUpRequest{OriginalAmount: "4.3500", Unit: "1.000"}, nil},
		{"ingest sub-cent amount", &IngestTransactionRequest{WalletID: "w", ExternalID: "x", Amount: "1.255"}, domain.ErrInvalidAmount},
		{"schedule sub-cent amount", &CreateScheduleRequest{WalletID: "w", Amount: "5.001", Frequency: "daily"}, domain.ErrInvalidAmount},
		{"lock missing date", &LockRequest{}, domain.ErrValidation},
		{"lock bad penalty", &LockRequest{TargetDate: &future, PenaltyPercentage: "lots"}, domain.ErrValidation},
		{"lock ok", &LockRequest{TargetDate: &future, PenaltyPercentage: "20"}, nil},
		{"ingest missing wallet", &IngestTransactionRequest{ExternalID: "x", Amount: "1"}, domain.ErrValidation},
		{"ingest missing external id", &IngestTransactionRequest{WalletID: "w", Amount: "1"}, domain.ErrInvalidExternalID},
		{"ingest ok", &IngestTransactionRequest{WalletID: "w", ExternalID: "x", Amount: "1.25"}, nil},
		{"schedule bad frequency", &CreateScheduleRequest{WalletID: "w", Amount: "5", Frequency: "hourly"}, domain.ErrInvalidFrequency},
		{"schedule ok", &CreateScheduleRequest{WalletID: "w", Amount: "5", Frequency: "Bi-Weekly"}, nil},
		{"update empty", &UpdateScheduleRequest{}, domain.ErrEmptyUpdate},
		{"update bad frequency", &UpdateScheduleRequest{Frequency: &bad}, domain.ErrInvalidFrequency},
		{"update negative amount", &UpdateScheduleRequest{Amount: &neg}, domain.ErrInvalidAmount},
		{"update active only", &UpdateScheduleRequest{IsActive: &yes}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected a validation-kind error, got %v", err)
			}
		})
	}
}

func TestUpdateScheduleRequest_ToUseCaseInput(t *testing.T) {
	amount := "75.50"
	freq := "MONTHLY"
	req := &UpdateScheduleRequest{Amount: &amount, Frequency: &freq}

	got, err := req.ToUseCaseInput("u-1", "s-1")
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}
	if got.ScheduleID != "s-1" || got.UserID != "u-1" {
		t.Fatalf("unexpected ids: %+v", got)
	}
	if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("unexpected amount: %v", got.Amount)
	}
	if got.Frequency == nil || *got.Frequency != domain.FrequencyMonthly {
		t.Fatalf("unexpected frequency: %v", got.Frequency)
	}
	if got.IsActive != nil {
		t.Fatalf("expected is_active to stay unset")
	}
}

func TestLockRequest_ToUseCaseInput(t *testing.T) {
	local := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	req := &LockRequest{TargetDate: &local}

	got, err := req.ToUseCaseInput("u-1", "w-1")
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}
	if got.TargetDate.Location() != time.UTC || !got.TargetDate.Equal(local) {
		t.Fatalf("expected the same instant in UTC, got %v", got.TargetDate)
	}
	if got.PenaltyPercentage != nil {
		t.Fatalf("expected nil penalty so the default applies")
	}
}

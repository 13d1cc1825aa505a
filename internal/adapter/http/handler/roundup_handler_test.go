package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

func TestRoundUpHandler_Post(t *testing.T) {
	var captured usecase.PostRoundUpInput
	h := NewRoundUpHandler(&roundUpServiceStub{
		postFn: func(ctx context.Context, input usecase.PostRoundUpInput) (*usecase.PostRoundUpResult, error) {
			captured = input
			return &usecase.PostRoundUpResult{
				Record: &domain.RoundUpRecord{
					ID:             "r-1",
					WalletID:       input.WalletID,
					OriginalAmount: input.OriginalAmount,
					RoundedAmount:  decimal.NewFromInt(5),
					RoundupAmount:  decimal.RequireFromString("0.65"),
				},
				Balance: decimal.RequireFromString("10.65"),
			}, nil
		},
	})

	rec := serve(http.MethodPost, "/users/{userID}/wallets/{walletID}/roundups",
		"/users/u-1/wallets/w-1/roundups", `{"original_amount":"4.35"}`, h.Post)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "u-1" || captured.WalletID != "w-1" || !captured.Unit.IsZero() {
		t.Fatalf("unexpected input: %+v", captured)
	}

	resp := decodeBody[dto.PostRoundUpResponse](t, rec)
	if resp.RoundUp.RoundupAmount != "0.65" || resp.Balance != "10.65" || resp.Message == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRoundUpHandler_Post_NoRoundUpNeeded(t *testing.T) {
	h := NewRoundUpHandler(&roundUpServiceStub{
		postFn: func(ctx context.Context, input usecase.PostRoundUpInput) (*usecase.PostRoundUpResult, error) {
			return nil, domain.ErrNoRoundUpNeeded
		},
	})

	rec := serve(http.MethodPost, "/users/{userID}/wallets/{walletID}/roundups",
		"/users/u-1/wallets/w-1/roundups", `{"original_amount":"10.00"}`, h.Post)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestRoundUpHandler_List_PassesPagination(t *testing.T) {
	h := NewRoundUpHandler(&roundUpServiceStub{
		listFn: func(ctx context.Context, userID, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error) {
			if limit != 5 || offset != 10 {
				t.Fatalf("unexpected pagination %d/%d", limit, offset)
			}
			return []*domain.RoundUpRecord{{ID: "r-1"}}, nil
		},
	})

	rec := serve(http.MethodGet, "/users/{userID}/wallets/{walletID}/roundups",
		"/users/u-1/wallets/w-1/roundups?limit=5&offset=10", "", h.List)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody[[]dto.RoundUpResponse](t, rec); len(got) != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestRoundUpHandler_Ingest(t *testing.T) {
	txn := &domain.LedgerTransaction{ID: "t-1", ExternalID: "card-42", Amount: decimal.RequireFromString("-4.35"), Category: domain.CategorySpending}

	tests := []struct {
		name       string
		duplicate  bool
		wantStatus int
	}{
		{name: "first delivery", wantStatus: http.StatusCreated},
		{name: "re-delivery", duplicate: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRoundUpHandler(&roundUpServiceStub{
				ingestFn: func(ctx context.Context, input usecase.IngestSpendingInput) (*usecase.IngestSpendingResult, error) {
					if input.ExternalID != "card-42" || input.WalletID != "w-1" {
						t.Fatalf("unexpected input: %+v", input)
					}
					result := &usecase.IngestSpendingResult{Transaction: txn, Duplicate: tt.duplicate}
					if !tt.duplicate {
						result.RoundUp = &domain.RoundUpRecord{ID: "r-1", RoundupAmount: decimal.RequireFromString("0.65")}
						result.Balance = decimal.RequireFromString("0.65")
					}
					return result, nil
				},
			})

			rec := serve(http.MethodPost, "/users/{userID}/transactions", "/users/u-1/transactions",
				`{"wallet_id":"w-1","external_id":"card-42","amount":"4.35","description":"Coffee"}`, h.Ingest)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			resp := decodeBody[dto.IngestTransactionResponse](t, rec)
			if resp.Duplicate != tt.duplicate {
				t.Fatalf("unexpected duplicate flag: %+v", resp)
			}
		})
	}
}

func TestRoundUpHandler_Ingest_MissingExternalID(t *testing.T) {
	h := NewRoundUpHandler(&roundUpServiceStub{
		ingestFn: func(ctx context.Context, input usecase.IngestSpendingInput) (*usecase.IngestSpendingResult, error) {
			t.Fatal("IngestSpending should not be called")
			return nil, nil
		},
	})

	rec := serve(http.MethodPost, "/users/{userID}/transactions", "/users/u-1/transactions",
		`{"wallet_id":"w-1","amount":"4.35"}`, h.Ingest)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRoundUpHandler_ListTransactions(t *testing.T) {
	h := NewRoundUpHandler(&roundUpServiceStub{
		txnsFn: func(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error) {
			if userID != "u-1" || limit != 20 || offset != 0 {
				t.Fatalf("unexpected args %s %d %d", userID, limit, offset)
			}
			return []*domain.LedgerTransaction{{ID: "t-1", Amount: decimal.NewFromInt(-50)}}, nil
		},
	})

	rec := serve(http.MethodGet, "/users/{userID}/transactions", "/users/u-1/transactions", "", h.ListTransactions)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	got := decodeBody[[]dto.TransactionResponse](t, rec)
	if len(got) != 1 || got[0].Amount != "-50.00" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

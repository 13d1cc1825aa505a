package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// serve routes one request through a chi router so URL params resolve.
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestWalletHandler_Create(t *testing.T) {
	var captured usecase.CreateWalletInput
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			captured = input
			return &domain.Wallet{ID: "w-1", UserID: input.UserID, Name: input.Name, TargetAmount: input.TargetAmount}, nil
		},
	}, nil)

	rec := serve(http.MethodPost, "/users/{userID}/wallets", "/users/u-1/wallets",
		`{"name":"Holiday","target_amount":"1500"}`, h.Create)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "u-1" || captured.Name != "Holiday" || !captured.TargetAmount.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	resp := decodeBody[dto.WalletResponse](t, rec)
	if resp.ID != "w-1" || resp.TargetAmount != "1500.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Create_Invalid(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
			t.Fatal("CreateWallet should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{invalid json`},
		{"unknown field", `{"name":"x","balance":"100"}`},
		{"empty name", `{"name":""}`},
		{"negative target", `{"name":"x","target_amount":"-5"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(http.MethodPost, "/users/{userID}/wallets", "/users/u-1/wallets", tt.body, h.Create)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestWalletHandler_Get_NotFound(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		getFn: func(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
			if userID != "u-1" || walletID != "w-9" {
				t.Fatalf("unexpected ids %s %s", userID, walletID)
			}
			return nil, domain.ErrWalletNotFound
		},
	}, nil)

	rec := serve(http.MethodGet, "/users/{userID}/wallets/{walletID}", "/users/u-1/wallets/w-9", "", h.Get)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	resp := decodeBody[dto.ErrorResponse](t, rec)
	if resp.Message != domain.ErrWalletNotFound.Error() {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestWalletHandler_List(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, userID string) ([]*domain.Wallet, error) {
			return []*domain.Wallet{{ID: "w-1"}, {ID: "w-2"}}, nil
		},
	}, nil)

	rec := serve(http.MethodGet, "/users/{userID}/wallets", "/users/u-1/wallets", "", h.List)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody[dto.ListWalletsResponse](t, rec)
	if resp.Total != 2 || len(resp.Wallets) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Reconcile(t *testing.T) {
	h := NewWalletHandler(nil, reconcileStub(func(ctx context.Context, userID, walletID string) (*usecase.WalletReconciliation, error) {
		return &usecase.WalletReconciliation{
			WalletID:       walletID,
			CurrentAmount:  decimal.NewFromInt(100),
			RoundUps:       decimal.RequireFromString("12.5"),
			AutoDeductions: decimal.NewFromInt(100),
			Penalties:      decimal.NewFromInt(20),
			Unattributed:   decimal.RequireFromString("7.5"),
		}, nil
	}))

	rec := serve(http.MethodGet, "/users/{userID}/wallets/{walletID}/reconciliation",
		"/users/u-1/wallets/w-1/reconciliation", "", h.Reconcile)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeBody[dto.ReconciliationResponse](t, rec)
	if resp.RoundUps != "12.50" || resp.Unattributed != "7.50" || resp.Penalties != "20.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_StoreUnavailable(t *testing.T) {
	h := NewWalletHandler(&walletServiceStub{
		listFn: func(ctx context.Context, userID string) ([]*domain.Wallet, error) {
			return nil, errors.Join(domain.ErrPersistence, errors.New("dial tcp: refused"))
		},
	}, nil)

	rec := serve(http.MethodGet, "/users/{userID}/wallets", "/users/u-1/wallets", "", h.List)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("driver details leaked: %s", rec.Body.String())
	}
}

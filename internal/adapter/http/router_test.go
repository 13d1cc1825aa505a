package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/adapter/http/handler"
	apimiddleware "github.com/iho/autosave/internal/adapter/http/middleware"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("autosave_up 1\n"))
		})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "autosave_up") {
		t.Fatalf("expected metrics handler to be mounted, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Holiday"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u-1/wallets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !store.checkCalled || !store.updateCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/users/{userID}/wallets/",
		"GET /api/v1/users/{userID}/wallets/",
		"GET /api/v1/users/{userID}/wallets/{walletID}/",
		"GET /api/v1/users/{userID}/wallets/{walletID}/reconciliation",
		"POST /api/v1/users/{userID}/wallets/{walletID}/roundups",
		"GET /api/v1/users/{userID}/wallets/{walletID}/roundups",
		"POST /api/v1/users/{userID}/wallets/{walletID}/lock",
		"GET /api/v1/users/{userID}/wallets/{walletID}/lock",
		"POST /api/v1/users/{userID}/wallets/{walletID}/unlock",
		"POST /api/v1/users/{userID}/transactions",
		"GET /api/v1/users/{userID}/transactions",
		"POST /api/v1/users/{userID}/schedules/",
		"GET /api/v1/users/{userID}/schedules/",
		"PATCH /api/v1/users/{userID}/schedules/{scheduleID}",
		"DELETE /api/v1/users/{userID}/schedules/{scheduleID}",
		"POST /api/v1/deductions/process",
		"GET /api/v1/deductions/upcoming",
		"GET /api/v1/deductions/stats",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		WalletHandler:    handler.NewWalletHandler(stubWalletService{}, nil),
		RoundUpHandler:   handler.NewRoundUpHandler(nil),
		LockHandler:      handler.NewLockHandler(nil),
		ScheduleHandler:  handler.NewScheduleHandler(nil),
		DeductionHandler: handler.NewDeductionHandler(nil, nil, nil, zerolog.Nop()),
		HealthHandler:    handler.NewHealthHandler(nil),
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubWalletService struct{}

func (stubWalletService) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "w-1", UserID: input.UserID, Name: input.Name}, nil
}

func (stubWalletService) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	return &domain.Wallet{ID: walletID, UserID: userID}, nil
}

func (stubWalletService) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	return []*domain.Wallet{}, nil
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Delete(ctx context.Context, key string) error {
	return nil
}

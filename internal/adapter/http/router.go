package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/adapter/http/handler"
	"github.com/iho/autosave/internal/adapter/http/middleware"
	"github.com/iho/autosave/internal/infrastructure/metrics"
	"github.com/iho/autosave/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler    *handler.WalletHandler
	RoundUpHandler   *handler.RoundUpHandler
	LockHandler      *handler.LockHandler
	ScheduleHandler  *handler.ScheduleHandler
	DeductionHandler *handler.DeductionHandler
	HealthHandler    *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Route("/wallets", func(r chi.Router) {
				r.Post("/", cfg.WalletHandler.Create)
				r.Get("/", cfg.WalletHandler.List)

				r.Route("/{walletID}", func(r chi.Router) {
					r.Get("/", cfg.WalletHandler.Get)
					r.Get("/reconciliation", cfg.WalletHandler.Reconcile)

					r.Post("/roundups", cfg.RoundUpHandler.Post)
					r.Get("/roundups", cfg.RoundUpHandler.List)

					r.Post("/lock", cfg.LockHandler.Lock)
					r.Get("/lock", cfg.LockHandler.Status)
					r.Post("/unlock", cfg.LockHandler.Unlock)
				})
			})

			r.Post("/transactions", cfg.RoundUpHandler.Ingest)
			r.Get("/transactions", cfg.RoundUpHandler.ListTransactions)

			r.Route("/schedules", func(r chi.Router) {
				r.Post("/", cfg.ScheduleHandler.Create)
				r.Get("/", cfg.ScheduleHandler.List)
				r.Patch("/{scheduleID}", cfg.ScheduleHandler.Update)
				r.Delete("/{scheduleID}", cfg.ScheduleHandler.Delete)
			})
		})

		r.Route("/deductions", func(r chi.Router) {
			r.Post("/process", cfg.DeductionHandler.Process)
			r.Get("/upcoming", cfg.DeductionHandler.Upcoming)
			r.Get("/stats", cfg.DeductionHandler.Stats)
		})
	})

	return r
}

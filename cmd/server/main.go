package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/autosave/internal/adapter/http"
	"github.com/iho/autosave/internal/adapter/http/handler"
	"github.com/iho/autosave/internal/adapter/http/middleware"
	"github.com/iho/autosave/internal/adapter/payment"
	postgresRepo "github.com/iho/autosave/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/autosave/internal/adapter/repository/redis"
	"github.com/iho/autosave/internal/infrastructure/clock"
	"github.com/iho/autosave/internal/infrastructure/config"
	"github.com/iho/autosave/internal/infrastructure/eventpublisher"
	"github.com/iho/autosave/internal/infrastructure/logger"
	"github.com/iho/autosave/internal/infrastructure/metrics"
	"github.com/iho/autosave/internal/infrastructure/postgres"
	"github.com/iho/autosave/internal/infrastructure/redis"
	"github.com/iho/autosave/internal/infrastructure/scheduler"
	"github.com/iho/autosave/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "autosave-server"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.DatabaseMigrationsPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	realClock := clock.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	roundUpRepo := postgresRepo.NewRoundUpRepository(pool)
	txnRepo := postgresRepo.NewLedgerTransactionRepository(pool)
	scheduleRepo := postgresRepo.NewScheduleRepository(pool)
	outboxRepo := newOutboxRepository(cfg, pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	batchLock := redisRepo.NewBatchLock(redisClient)
	rail := newPaymentRail(cfg, log)

	// Initialize use cases
	walletUC := usecase.NewWalletUseCase(walletRepo, idGen, realClock)
	roundUpUC := usecase.NewRoundUpUseCase(usecase.RoundUpDeps{
		TxManager:   txManager,
		WalletRepo:  walletRepo,
		RoundUpRepo: roundUpRepo,
		TxnRepo:     txnRepo,
		OutboxRepo:  outboxRepo,
		Retrier:     retrier,
		IDGen:       idGen,
		Clock:       realClock,
		DefaultUnit: cfg.RoundUpUnit,
		Metrics:     m,
		Logger:      log,
	})
	lockUC := usecase.NewLockUseCase(txManager, walletRepo, txnRepo, outboxRepo, retrier, idGen, realClock, m, log)
	scheduleUC := usecase.NewScheduleUseCase(txManager, walletRepo, scheduleRepo, outboxRepo, idGen, realClock, log)
	reconcileUC := usecase.NewReconciliationUseCase(walletRepo, roundUpRepo, txnRepo, realClock)
	reportingUC := usecase.NewReportingUseCase(scheduleRepo, realClock)
	processor := usecase.NewDeductionProcessor(usecase.DeductionProcessorDeps{
		TxManager:       txManager,
		WalletRepo:      walletRepo,
		ScheduleRepo:    scheduleRepo,
		TxnRepo:         txnRepo,
		OutboxRepo:      outboxRepo,
		Transfer:        rail,
		BatchLock:       batchLock,
		IDGen:           idGen,
		Metrics:         m,
		Logger:          log,
		TransferTimeout: cfg.TransferTimeout,
		BatchSize:       cfg.BatchSize,
		LockTTL:         cfg.BatchLockTTL,
	})

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WalletHandler:    handler.NewWalletHandler(walletUC, reconcileUC),
		RoundUpHandler:   handler.NewRoundUpHandler(roundUpUC),
		LockHandler:      handler.NewLockHandler(lockUC),
		ScheduleHandler:  handler.NewScheduleHandler(scheduleUC),
		DeductionHandler: handler.NewDeductionHandler(processor, reportingUC, realClock, log),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": handler.PingFunc(pool.Ping),
			"redis":    redisPinger(redisClient),
		}),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:           log,
	})

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.SchedulerEnabled {
		sched := scheduler.New(scheduler.Config{
			Processor: processor,
			Clock:     realClock,
			Interval:  cfg.SchedulerInterval,
			Logger:    log,
		})
		g.Go(func() error { return ignoreCanceled(sched.Start(gctx)) })
	}

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  redisRepo.NewEventPublisher(redisClient, cfg.OutboxChannel),
			Clock:      realClock,
			Metrics:    m,
			Logger:     log,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
		g.Go(func() error { return ignoreCanceled(publisher.Start(gctx)) })
	}

	if rateLimiter != nil {
		g.Go(func() error {
			rateLimiter.Run(gctx, time.Minute, 10*time.Minute)
			return nil
		})
	}

	return g.Wait()
}

// newPaymentRail talks to a real rail when PAYMENT_RAIL_URL is set and simulates one otherwise.
func newPaymentRail(cfg *config.Config, log zerolog.Logger) usecase.FundsTransfer {
	if cfg.PaymentRailURL == "" {
		log.Warn().Msg("PAYMENT_RAIL_URL not set, using simulated payment rail")
		return payment.NewSimulatedRail(cfg.SimulatedLatency, log)
	}

	return payment.NewHTTPRail(payment.HTTPRailConfig{
		BaseURL:       cfg.PaymentRailURL,
		Client:        &http.Client{Timeout: cfg.TransferTimeout},
		RatePerSecond: cfg.PaymentRailRPS,
		Burst:         cfg.PaymentRailBurst,
		Logger:        log,
	})
}

func newOutboxRepository(cfg *config.Config, pool *pgxpool.Pool) usecase.OutboxRepository {
	if !cfg.OutboxEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(pool)
}

func redisPinger(client *goredis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func listenAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

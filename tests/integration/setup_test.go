package integration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/adapter/payment"
	"github.com/iho/autosave/internal/adapter/repository/postgres"
	"github.com/iho/autosave/internal/infrastructure/clock"
	"github.com/iho/autosave/internal/usecase"
	"github.com/iho/autosave/tests/testutil"
)

// app wires the use cases against a real database.
type app struct {
	db        *testutil.TestDB
	rail      *payment.SimulatedRail
	roundUps  *usecase.RoundUpUseCase
	locks     *usecase.LockUseCase
	schedules *usecase.ScheduleUseCase
	reconcile *usecase.ReconciliationUseCase
	reports   *usecase.ReportingUseCase
	processor *usecase.DeductionProcessor
	outbox    *postgres.OutboxRepository
}

func newApp(t *testing.T) *app {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.NewTestDB(t)
	pool := db.Pool
	logger := zerolog.Nop()
	realClock := clock.New()

	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	roundUpRepo := postgres.NewRoundUpRepository(pool)
	txnRepo := postgres.NewLedgerTransactionRepository(pool)
	scheduleRepo := postgres.NewScheduleRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	retrier := postgres.NewRetrier(logger)
	idGen := postgres.NewULIDGenerator()
	rail := payment.NewSimulatedRail(0, logger)

	return &app{
		db:   db,
		rail: rail,
		roundUps: usecase.NewRoundUpUseCase(usecase.RoundUpDeps{
			TxManager:   txManager,
			WalletRepo:  walletRepo,
			RoundUpRepo: roundUpRepo,
			TxnRepo:     txnRepo,
			OutboxRepo:  outboxRepo,
			Retrier:     retrier,
			IDGen:       idGen,
			Clock:       realClock,
			DefaultUnit: decimal.NewFromInt(1),
			Logger:      logger,
		}),
		locks:     usecase.NewLockUseCase(txManager, walletRepo, txnRepo, outboxRepo, retrier, idGen, realClock, nil, logger),
		schedules: usecase.NewScheduleUseCase(txManager, walletRepo, scheduleRepo, outboxRepo, idGen, realClock, logger),
		reconcile: usecase.NewReconciliationUseCase(walletRepo, roundUpRepo, txnRepo, realClock),
		reports:   usecase.NewReportingUseCase(scheduleRepo, realClock),
		processor: usecase.NewDeductionProcessor(usecase.DeductionProcessorDeps{
			TxManager:       txManager,
			WalletRepo:      walletRepo,
			ScheduleRepo:    scheduleRepo,
			TxnRepo:         txnRepo,
			OutboxRepo:      outboxRepo,
			Transfer:        rail,
			BatchLock:       testutil.NewLocalBatchLock(),
			IDGen:           idGen,
			Logger:          logger,
			TransferTimeout: 5 * time.Second,
			BatchSize:       2,
			LockTTL:         time.Minute,
		}),
		outbox: outboxRepo,
	}
}

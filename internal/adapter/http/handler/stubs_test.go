package handler

import (
	"context"
	"time"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

type walletServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	getFn    func(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	listFn   func(ctx context.Context, userID string) ([]*domain.Wallet, error)
}

func (s *walletServiceStub) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return s.createFn(ctx, input)
}

func (s *walletServiceStub) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	return s.getFn(ctx, userID, walletID)
}

func (s *walletServiceStub) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	return s.listFn(ctx, userID)
}

type reconcileStub func(ctx context.Context, userID, walletID string) (*usecase.WalletReconciliation, error)

func (f reconcileStub) ReconcileWallet(ctx context.Context, userID, walletID string) (*usecase.WalletReconciliation, error) {
	return f(ctx, userID, walletID)
}

type roundUpServiceStub struct {
	postFn   func(ctx context.Context, input usecase.PostRoundUpInput) (*usecase.PostRoundUpResult, error)
	ingestFn func(ctx context.Context, input usecase.IngestSpendingInput) (*usecase.IngestSpendingResult, error)
	listFn   func(ctx context.Context, userID, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error)
	txnsFn   func(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error)
}

func (s *roundUpServiceStub) PostRoundUp(ctx context.Context, input usecase.PostRoundUpInput) (*usecase.PostRoundUpResult, error) {
	return s.postFn(ctx, input)
}

func (s *roundUpServiceStub) IngestSpending(ctx context.Context, input usecase.IngestSpendingInput) (*usecase.IngestSpendingResult, error) {
	return s.ingestFn(ctx, input)
}

func (s *roundUpServiceStub) ListRoundUps(ctx context.Context, userID, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error) {
	return s.listFn(ctx, userID, walletID, limit, offset)
}

func (s *roundUpServiceStub) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error) {
	return s.txnsFn(ctx, userID, limit, offset)
}

type lockServiceStub struct {
	lockFn   func(ctx context.Context, input usecase.LockInput) (*domain.Wallet, error)
	unlockFn func(ctx context.Context, userID, walletID string) (*domain.UnlockResult, error)
	statusFn func(ctx context.Context, userID, walletID string) (*domain.LockStatus, error)
}

func (s *lockServiceStub) Lock(ctx context.Context, input usecase.LockInput) (*domain.Wallet, error) {
	return s.lockFn(ctx, input)
}

func (s *lockServiceStub) Unlock(ctx context.Context, userID, walletID string) (*domain.UnlockResult, error) {
	return s.unlockFn(ctx, userID, walletID)
}

func (s *lockServiceStub) Status(ctx context.Context, userID, walletID string) (*domain.LockStatus, error) {
	return s.statusFn(ctx, userID, walletID)
}

type scheduleServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateScheduleInput) (*domain.AutoDeductionSchedule, error)
	updateFn func(ctx context.Context, input usecase.UpdateScheduleInput) (*domain.AutoDeductionSchedule, error)
	deleteFn func(ctx context.Context, userID, scheduleID string) error
	listFn   func(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error)
}

func (s *scheduleServiceStub) CreateSchedule(ctx context.Context, input usecase.CreateScheduleInput) (*domain.AutoDeductionSchedule, error) {
	return s.createFn(ctx, input)
}

func (s *scheduleServiceStub) UpdateSchedule(ctx context.Context, input usecase.UpdateScheduleInput) (*domain.AutoDeductionSchedule, error) {
	return s.updateFn(ctx, input)
}

func (s *scheduleServiceStub) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	return s.deleteFn(ctx, userID, scheduleID)
}

func (s *scheduleServiceStub) ListSchedules(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error) {
	return s.listFn(ctx, userID)
}

type processorStub func(ctx context.Context, now time.Time) (*domain.ProcessingSummary, error)

func (f processorStub) ProcessDueDeductions(ctx context.Context, now time.Time) (*domain.ProcessingSummary, error) {
	return f(ctx, now)
}

type reportingStub struct {
	upcomingFn func(ctx context.Context, within time.Duration, limit int) (*usecase.UpcomingReport, error)
	statsFn    func(ctx context.Context) (*domain.ScheduleStats, error)
}

func (s *reportingStub) Upcoming(ctx context.Context, within time.Duration, limit int) (*usecase.UpcomingReport, error) {
	return s.upcomingFn(ctx, within, limit)
}

func (s *reportingStub) Stats(ctx context.Context) (*domain.ScheduleStats, error) {
	return s.statsFn(ctx)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

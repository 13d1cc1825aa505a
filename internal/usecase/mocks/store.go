package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// Store is an in-memory ledger store. Transactions are serialized: Begin holds the store
// until Commit or Rollback, and Rollback restores the state seen at Begin. Writes made
// outside a transaction while another one is open are lost if that transaction rolls back.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   state

	TxManager    *MockTransactionManager
	Wallets      *MockWalletRepository
	BankAccounts *MockBankAccountRepository
	Schedules    *MockScheduleRepository
	RoundUps     *MockRoundUpRepository
	Transactions *MockLedgerTransactionRepository
	Outbox       *MockOutboxRepository
}

type state struct {
	wallets   map[string]domain.Wallet
	accounts  map[string]domain.LinkedBankAccount
	schedules map[string]domain.AutoDeductionSchedule
	roundUps  []domain.RoundUpRecord
	txns      []domain.LedgerTransaction
	outbox    []domain.OutboxEvent
}

func (s state) clone() state {
	c := state{
		wallets:   make(map[string]domain.Wallet, len(s.wallets)),
		accounts:  make(map[string]domain.LinkedBankAccount, len(s.accounts)),
		schedules: make(map[string]domain.AutoDeductionSchedule, len(s.schedules)),
		roundUps:  append([]domain.RoundUpRecord(nil), s.roundUps...),
		txns:      append([]domain.LedgerTransaction(nil), s.txns...),
		outbox:    append([]domain.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.schedules {
		c.schedules[k] = v
	}
	return c
}

// NewStore creates an empty Store with all repositories bound to it.
func NewStore() *Store {
	s := &Store{
		st: state{
			wallets:   make(map[string]domain.Wallet),
			accounts:  make(map[string]domain.LinkedBankAccount),
			schedules: make(map[string]domain.AutoDeductionSchedule),
		},
	}
	s.TxManager = &MockTransactionManager{store: s}
	s.Wallets = &MockWalletRepository{store: s}
	s.BankAccounts = &MockBankAccountRepository{store: s}
	s.Schedules = &MockScheduleRepository{store: s}
	s.RoundUps = &MockRoundUpRepository{store: s}
	s.Transactions = &MockLedgerTransactionRepository{store: s}
	s.Outbox = &MockOutboxRepository{store: s}
	return s
}

// Wallet returns a copy of the stored wallet.
func (s *Store) Wallet(id string) (domain.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.st.wallets[id]
	return w, ok
}

// Schedule returns a copy of the stored schedule.
func (s *Store) Schedule(id string) (domain.AutoDeductionSchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.st.schedules[id]
	return sc, ok
}

// LedgerTransactions returns all committed ledger transactions in insertion order.
func (s *Store) LedgerTransactions() []domain.LedgerTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LedgerTransaction(nil), s.st.txns...)
}

// RoundUpRecords returns all round-up records in insertion order.
func (s *Store) RoundUpRecords() []domain.RoundUpRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RoundUpRecord(nil), s.st.roundUps...)
}

// Events returns all outbox events in insertion order.
func (s *Store) Events() []domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OutboxEvent(nil), s.st.outbox...)
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = snapshot
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.clone()
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	store *Store

	BeginFunc  func(ctx context.Context) error
	CommitFunc func(ctx context.Context) error

	mu         sync.Mutex
	begun      int
	committed  int
	rolledBack int
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		if err := m.BeginFunc(ctx); err != nil {
			return nil, err
		}
	}
	m.store.txMu.Lock()
	m.mu.Lock()
	m.begun++
	m.mu.Unlock()
	return &MockTransaction{manager: m, snapshot: m.store.snapshot()}, nil
}

// Counts returns how many transactions were begun, committed and rolled back.
func (m *MockTransactionManager) Counts() (begun, committed, rolledBack int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun, m.committed, m.rolledBack
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	manager  *MockTransactionManager
	snapshot state
	done     bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	if t.manager.CommitFunc != nil {
		if err := t.manager.CommitFunc(ctx); err != nil {
			return err
		}
	}
	t.done = true
	t.manager.mu.Lock()
	t.manager.committed++
	t.manager.mu.Unlock()
	t.manager.store.txMu.Unlock()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.manager.store.restore(t.snapshot)
	t.manager.mu.Lock()
	t.manager.rolledBack++
	t.manager.mu.Unlock()
	t.manager.store.txMu.Unlock()
	return nil
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	store *Store

	GetForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, userID, walletID string) (*domain.Wallet, error)
	IncrementBalanceFunc func(ctx context.Context, tx usecase.Transaction, walletID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	UpdateLockFunc       func(ctx context.Context, tx usecase.Transaction, walletID string, lock usecase.WalletLockUpdate) error
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.st.wallets[wallet.ID] = *wallet
	return nil
}

func (m *MockWalletRepository) GetForUser(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	w, ok := m.store.st.wallets[walletID]
	if !ok || w.UserID != userID {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (m *MockWalletRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, walletID string) (*domain.Wallet, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, userID, walletID)
	}
	return m.GetForUser(ctx, userID, walletID)
}

func (m *MockWalletRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.store.st.wallets {
		if w.UserID == userID {
			w := w
			wallets = append(wallets, &w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) {
			return wallets[i].ID < wallets[j].ID
		}
		return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
	})
	return wallets, nil
}

func (m *MockWalletRepository) IncrementBalance(ctx context.Context, tx usecase.Transaction, walletID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.IncrementBalanceFunc != nil {
		return m.IncrementBalanceFunc(ctx, tx, walletID, delta, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	w, ok := m.store.st.wallets[walletID]
	if !ok {
		return decimal.Zero, domain.ErrWalletNotFound
	}
	next := w.CurrentAmount.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: wallet balance cannot be negative", domain.ErrPersistence)
	}
	w.CurrentAmount = next
	w.UpdatedAt = updatedAt
	m.store.st.wallets[walletID] = w
	return next, nil
}

func (m *MockWalletRepository) UpdateLock(ctx context.Context, tx usecase.Transaction, walletID string, lock usecase.WalletLockUpdate) error {
	if m.UpdateLockFunc != nil {
		return m.UpdateLockFunc(ctx, tx, walletID, lock)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	w, ok := m.store.st.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.IsLocked = lock.IsLocked
	w.TargetDate = lock.TargetDate
	w.PenaltyPercentage = lock.PenaltyPercentage
	w.UpdatedAt = lock.UpdatedAt
	m.store.st.wallets[walletID] = w
	return nil
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository.
type MockBankAccountRepository struct {
	store *Store
}

func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.LinkedBankAccount) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.st.accounts[account.ID] = *account
	return nil
}

func (m *MockBankAccountRepository) GetFirstActiveByUser(ctx context.Context, userID string) (*domain.LinkedBankAccount, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	a := m.store.firstActiveAccount(userID)
	if a == nil {
		return nil, domain.ErrBankAccountNotFound
	}
	return a, nil
}

// firstActiveAccount expects mu to be held.
func (s *Store) firstActiveAccount(userID string) *domain.LinkedBankAccount {
	var first *domain.LinkedBankAccount
	for _, a := range s.st.accounts {
		if a.UserID != userID || !a.IsActive {
			continue
		}
		a := a
		if first == nil ||
			a.CreatedAt.Before(first.CreatedAt) ||
			(a.CreatedAt.Equal(first.CreatedAt) && a.ID < first.ID) {
			first = &a
		}
	}
	return first
}

// MockScheduleRepository is a mock implementation of ScheduleRepository.
type MockScheduleRepository struct {
	store *Store

	GetForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, userID, scheduleID string) (*domain.AutoDeductionSchedule, error)
	ListDueFunc        func(ctx context.Context, now time.Time, cursor usecase.DueCursor, limit int) ([]*domain.DueSchedule, error)
	ClaimDueFunc       func(ctx context.Context, tx usecase.Transaction, scheduleID string, now time.Time) (*domain.AutoDeductionSchedule, bool, error)
	AdvanceDueDateFunc func(ctx context.Context, tx usecase.Transaction, scheduleID string, next, updatedAt time.Time) error
}

func (m *MockScheduleRepository) Create(ctx context.Context, tx usecase.Transaction, schedule *domain.AutoDeductionSchedule) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.st.schedules[schedule.ID] = *schedule
	return nil
}

func (m *MockScheduleRepository) GetForUser(ctx context.Context, userID, scheduleID string) (*domain.AutoDeductionSchedule, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	s, ok := m.store.st.schedules[scheduleID]
	if !ok || s.UserID != userID {
		return nil, domain.ErrScheduleNotFound
	}
	return &s, nil
}

func (m *MockScheduleRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, scheduleID string) (*domain.AutoDeductionSchedule, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, userID, scheduleID)
	}
	return m.GetForUser(ctx, userID, scheduleID)
}

func (m *MockScheduleRepository) ListByUser(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var schedules []*domain.AutoDeductionSchedule
	for _, s := range m.store.st.schedules {
		if s.UserID == userID {
			s := s
			schedules = append(schedules, &s)
		}
	}
	sortSchedules(schedules)
	return schedules, nil
}

func (m *MockScheduleRepository) Update(ctx context.Context, tx usecase.Transaction, schedule *domain.AutoDeductionSchedule) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.st.schedules[schedule.ID]
	if !ok || existing.UserID != schedule.UserID {
		return domain.ErrScheduleNotFound
	}
	m.store.st.schedules[schedule.ID] = *schedule
	return nil
}

func (m *MockScheduleRepository) Delete(ctx context.Context, userID, scheduleID string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.st.schedules[scheduleID]
	if !ok || existing.UserID != userID {
		return domain.ErrScheduleNotFound
	}
	delete(m.store.st.schedules, scheduleID)
	return nil
}

func (m *MockScheduleRepository) ListDue(ctx context.Context, now time.Time, cursor usecase.DueCursor, limit int) ([]*domain.DueSchedule, error) {
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now, cursor, limit)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var schedules []*domain.AutoDeductionSchedule
	for _, s := range m.store.st.schedules {
		if !s.IsDue(now) {
			continue
		}
		if !cursor.AfterDue.IsZero() || cursor.AfterID != "" {
			if s.NextDueDate.Before(cursor.AfterDue) ||
				(s.NextDueDate.Equal(cursor.AfterDue) && s.ID <= cursor.AfterID) {
				continue
			}
		}
		s := s
		schedules = append(schedules, &s)
	}
	sortSchedules(schedules)
	if len(schedules) > limit {
		schedules = schedules[:limit]
	}

	due := make([]*domain.DueSchedule, 0, len(schedules))
	for _, s := range schedules {
		w, ok := m.store.st.wallets[s.WalletID]
		if !ok {
			continue
		}
		due = append(due, &domain.DueSchedule{
			Schedule:    s,
			Wallet:      &w,
			BankAccount: m.store.firstActiveAccount(s.UserID),
		})
	}
	return due, nil
}

func (m *MockScheduleRepository) ClaimDue(ctx context.Context, tx usecase.Transaction, scheduleID string, now time.Time) (*domain.AutoDeductionSchedule, bool, error) {
	if m.ClaimDueFunc != nil {
		return m.ClaimDueFunc(ctx, tx, scheduleID, now)
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	s, ok := m.store.st.schedules[scheduleID]
	if !ok || !s.IsDue(now) {
		return nil, false, nil
	}
	return &s, true, nil
}

func (m *MockScheduleRepository) AdvanceDueDate(ctx context.Context, tx usecase.Transaction, scheduleID string, next, updatedAt time.Time) error {
	if m.AdvanceDueDateFunc != nil {
		return m.AdvanceDueDateFunc(ctx, tx, scheduleID, next, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	s, ok := m.store.st.schedules[scheduleID]
	if !ok {
		return domain.ErrScheduleNotFound
	}
	s.NextDueDate = next
	s.UpdatedAt = updatedAt
	m.store.st.schedules[scheduleID] = s
	return nil
}

func (m *MockScheduleRepository) ListUpcoming(ctx context.Context, until time.Time, limit int) ([]*domain.UpcomingSchedule, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var schedules []*domain.AutoDeductionSchedule
	for _, s := range m.store.st.schedules {
		if s.IsActive && !s.NextDueDate.After(until) {
			s := s
			schedules = append(schedules, &s)
		}
	}
	sortSchedules(schedules)
	if len(schedules) > limit {
		schedules = schedules[:limit]
	}

	upcoming := make([]*domain.UpcomingSchedule, 0, len(schedules))
	for _, s := range schedules {
		upcoming = append(upcoming, &domain.UpcomingSchedule{
			Schedule:   s,
			WalletName: m.store.st.wallets[s.WalletID].Name,
		})
	}
	return upcoming, nil
}

func (m *MockScheduleRepository) Stats(ctx context.Context, now time.Time) (*domain.ScheduleStats, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	stats := &domain.ScheduleStats{TotalAmount: decimal.Zero}
	users := make(map[string]struct{})
	for _, s := range m.store.st.schedules {
		if !s.IsActive {
			continue
		}
		stats.ActiveSchedules++
		stats.TotalAmount = stats.TotalAmount.Add(s.Amount)
		users[s.UserID] = struct{}{}
		if !s.NextDueDate.After(now) {
			stats.OverdueCount++
		}
	}
	stats.DistinctUsers = int64(len(users))
	return stats, nil
}

func sortSchedules(schedules []*domain.AutoDeductionSchedule) {
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].NextDueDate.Equal(schedules[j].NextDueDate) {
			return schedules[i].ID < schedules[j].ID
		}
		return schedules[i].NextDueDate.Before(schedules[j].NextDueDate)
	})
}

// MockRoundUpRepository is a mock implementation of RoundUpRepository.
type MockRoundUpRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.RoundUpRecord) error
}

func (m *MockRoundUpRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.RoundUpRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.st.roundUps = append(m.store.st.roundUps, *record)
	return nil
}

func (m *MockRoundUpRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var records []*domain.RoundUpRecord
	for i := len(m.store.st.roundUps) - 1; i >= 0; i-- {
		r := m.store.st.roundUps[i]
		if r.WalletID == walletID {
			records = append(records, &r)
		}
	}
	return paginate(records, limit, offset), nil
}

func (m *MockRoundUpRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	sum := decimal.Zero
	for _, r := range m.store.st.roundUps {
		if r.WalletID == walletID {
			sum = sum.Add(r.RoundupAmount)
		}
	}
	return sum, nil
}

// MockLedgerTransactionRepository is a mock implementation of LedgerTransactionRepository.
type MockLedgerTransactionRepository struct {
	store *Store

	InsertFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.LedgerTransaction) (bool, error)
}

func (m *MockLedgerTransactionRepository) Insert(ctx context.Context, tx usecase.Transaction, txn *domain.LedgerTransaction) (bool, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, txn)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.st.txns {
		if existing.ExternalID == txn.ExternalID {
			return false, nil
		}
	}
	m.store.st.txns = append(m.store.st.txns, *txn)
	return true, nil
}

func (m *MockLedgerTransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.LedgerTransaction, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	for _, t := range m.store.st.txns {
		if t.ExternalID == externalID {
			return &t, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockLedgerTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var txns []*domain.LedgerTransaction
	for i := len(m.store.st.txns) - 1; i >= 0; i-- {
		t := m.store.st.txns[i]
		if t.UserID == userID {
			txns = append(txns, &t)
		}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].OccurredAt.After(txns[j].OccurredAt)
	})
	return paginate(txns, limit, offset), nil
}

func (m *MockLedgerTransactionRepository) SumByWalletAndCategory(ctx context.Context, walletID, category string) (decimal.Decimal, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	sum := decimal.Zero
	for _, t := range m.store.st.txns {
		if t.WalletID != nil && *t.WalletID == walletID && t.Category == category {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.st.outbox = append(m.store.st.outbox, *event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.store.st.outbox {
		if !e.Published {
			e := e
			events = append(events, &e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i := range m.store.st.outbox {
		if m.store.st.outbox[i].ID == id {
			at := publishedAt
			m.store.st.outbox[i].Published = true
			m.store.st.outbox[i].PublishedAt = &at
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	kept := m.store.st.outbox[:0]
	for _, e := range m.store.st.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.store.st.outbox = kept
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

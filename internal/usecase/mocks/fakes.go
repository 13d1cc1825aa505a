package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// FakeClock is a settable Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// TransferCall records one call to StubTransfer.
type TransferCall struct {
	Credential string
	Amount     decimal.Decimal
	Reference  string
}

// StubTransfer is a FundsTransfer that records calls. Credentials listed in Fail
// are rejected with the mapped error.
type StubTransfer struct {
	TransferFunc func(ctx context.Context, credential string, amount decimal.Decimal, reference string) error
	Fail         map[string]error

	mu    sync.Mutex
	calls []TransferCall
}

func NewStubTransfer() *StubTransfer {
	return &StubTransfer{Fail: make(map[string]error)}
}

func (s *StubTransfer) Transfer(ctx context.Context, credential string, amount decimal.Decimal, reference string) error {
	s.mu.Lock()
	s.calls = append(s.calls, TransferCall{Credential: credential, Amount: amount, Reference: reference})
	s.mu.Unlock()

	if s.TransferFunc != nil {
		return s.TransferFunc(ctx, credential, amount, reference)
	}
	if err, ok := s.Fail[credential]; ok {
		return err
	}
	return nil
}

// Calls returns the recorded calls in order.
func (s *StubTransfer) Calls() []TransferCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TransferCall(nil), s.calls...)
}

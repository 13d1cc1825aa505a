package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/adapter/payment"
	postgresRepo "github.com/iho/autosave/internal/adapter/repository/postgres"
	"github.com/iho/autosave/internal/infrastructure/config"
)

func TestNewPaymentRail(t *testing.T) {
	cfg := &config.Config{}
	if _, ok := newPaymentRail(cfg, zerolog.Nop()).(*payment.SimulatedRail); !ok {
		t.Fatalf("expected simulated rail without PAYMENT_RAIL_URL")
	}

	cfg.PaymentRailURL = "http://rail.local"
	if _, ok := newPaymentRail(cfg, zerolog.Nop()).(*payment.HTTPRail); !ok {
		t.Fatalf("expected HTTP rail when PAYMENT_RAIL_URL is set")
	}
}

func TestNewOutboxRepository_Disabled(t *testing.T) {
	repo := newOutboxRepository(&config.Config{OutboxEnabled: false}, nil)
	if _, ok := repo.(*postgresRepo.NullOutboxRepository); !ok {
		t.Fatalf("expected null outbox when the outbox is disabled, got %T", repo)
	}
}

func TestListenAddr(t *testing.T) {
	if got := listenAddr("8080"); got != ":8080" {
		t.Fatalf("expected :8080, got %s", got)
	}
}

func TestIgnoreCanceled(t *testing.T) {
	if err := ignoreCanceled(context.Canceled); err != nil {
		t.Fatalf("expected canceled to be ignored, got %v", err)
	}

	boom := errors.New("boom")
	if err := ignoreCanceled(boom); !errors.Is(err, boom) {
		t.Fatalf("expected other errors to pass through, got %v", err)
	}
}

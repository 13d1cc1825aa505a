package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.RoundUpsPosted == nil || m.HTTPRequests == nil || m.DeductionItems == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ObserveDeduction("succeeded", decimal.NewFromInt(50))

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserveHelpers(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRoundUp(decimal.RequireFromString("0.65"))
	m.ObserveRoundUpSkipped()
	m.ObserveDeduction("succeeded", decimal.NewFromInt(50))
	m.ObserveDeduction("failed", decimal.NewFromInt(50))
	m.ObserveDeduction("failed", decimal.NewFromInt(20))
	m.ObserveUnlock(true, decimal.NewFromInt(100))
	m.ObserveUnlock(false, decimal.Zero)
	m.ObserveEvent("roundup.posted", nil)
	m.ObserveEvent("roundup.posted", errors.New("boom"))

	if got := testutil.ToFloat64(m.RoundUpsPosted); got != 1 {
		t.Fatalf("expected 1 round-up, got %v", got)
	}
	if got := testutil.ToFloat64(m.DeductionItems.WithLabelValues("failed")); got != 2 {
		t.Fatalf("expected 2 failed deductions, got %v", got)
	}
	if got := testutil.ToFloat64(m.WalletsUnlocked.WithLabelValues("early")); got != 1 {
		t.Fatalf("expected 1 early unlock, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues("roundup.posted", "error")); got != 1 {
		t.Fatalf("expected 1 failed publish, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.ObserveRoundUp(decimal.NewFromInt(1))
	m.ObserveDeduction("failed", decimal.Zero)
	m.ObserveBatch(1)
	m.ObserveUnlock(true, decimal.NewFromInt(1))
	m.ObserveEvent("x", nil)
	m.TrackHTTP()("GET", "/health", 200, 0.1)
}

func TestTrackHTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	done := m.TrackHTTP()
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 1 {
		t.Fatalf("expected 1 request in flight, got %v", got)
	}

	done("POST", "/api/v1/deductions/process", 409, 0.02)
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/deductions/process", "409")); got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}

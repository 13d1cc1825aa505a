package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Round-up metrics
	RoundUpsPosted  prometheus.Counter
	RoundUpsSkipped prometheus.Counter
	RoundUpAmount   prometheus.Histogram

	// Auto-deduction metrics
	DeductionItems    *prometheus.CounterVec
	DeductionAmount   prometheus.Histogram
	BatchDuration     prometheus.Histogram
	BatchesContended  prometheus.Counter
	TransferDuration  prometheus.Histogram
	DuplicateAuditRow prometheus.Counter

	// Wallet lock metrics
	WalletsLocked    prometheus.Counter
	WalletsUnlocked  *prometheus.CounterVec
	PenaltiesApplied prometheus.Histogram

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Round-up metrics
		RoundUpsPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "autosave_roundups_posted_total",
			Help: "Total number of round-ups posted to wallets",
		}),
		RoundUpsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "autosave_roundups_skipped_total",
			Help: "Total number of spends that needed no round-up",
		}),
		RoundUpAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosave_roundup_amount",
			Help:    "Round-up amounts",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),

		// Auto-deduction metrics
		DeductionItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosave_deduction_items_total",
				Help: "Processed auto-deduction schedules by outcome",
			},
			[]string{"status"},
		),
		DeductionAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosave_deduction_amount",
			Help:    "Amounts credited by auto-deductions",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosave_deduction_batch_duration_seconds",
			Help:    "Duration of deduction batch runs",
			Buckets: prometheus.DefBuckets,
		}),
		BatchesContended: factory.NewCounter(prometheus.CounterOpts{
			Name: "autosave_deduction_batches_contended_total",
			Help: "Batch runs skipped because another run held the lock",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosave_transfer_duration_seconds",
			Help:    "Duration of payment-rail transfer calls",
			Buckets: prometheus.DefBuckets,
		}),
		DuplicateAuditRow: factory.NewCounter(prometheus.CounterOpts{
			Name: "autosave_duplicate_ledger_transactions_total",
			Help: "Ledger transaction inserts ignored because the external id existed",
		}),

		// Wallet lock metrics
		WalletsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "autosave_wallets_locked_total",
			Help: "Total number of wallet lock operations",
		}),
		WalletsUnlocked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosave_wallets_unlocked_total",
				Help: "Total number of wallet unlocks by kind",
			},
			[]string{"kind"},
		),
		PenaltiesApplied: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosave_penalty_amount",
			Help:    "Early-withdrawal penalty amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosave_events_published_total",
				Help: "Outbox events published by type and result",
			},
			[]string{"event_type", "result"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosave_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autosave_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "autosave_http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
		),
	}
}

// The helpers below accept a nil receiver so use cases can run without metrics.

// ObserveRoundUp records a posted round-up.
func (m *Metrics) ObserveRoundUp(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.RoundUpsPosted.Inc()
	m.RoundUpAmount.Observe(amount.InexactFloat64())
}

// ObserveRoundUpSkipped records a spend that needed no round-up.
func (m *Metrics) ObserveRoundUpSkipped() {
	if m == nil {
		return
	}
	m.RoundUpsSkipped.Inc()
}

// ObserveDeduction records one processed schedule.
func (m *Metrics) ObserveDeduction(status string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.DeductionItems.WithLabelValues(status).Inc()
	if status == "succeeded" {
		m.DeductionAmount.Observe(amount.InexactFloat64())
	}
}

// ObserveBatch records the duration of a batch run in seconds.
func (m *Metrics) ObserveBatch(seconds float64) {
	if m == nil {
		return
	}
	m.BatchDuration.Observe(seconds)
}

// ObserveBatchContended records a batch run that found the lock taken.
func (m *Metrics) ObserveBatchContended() {
	if m == nil {
		return
	}
	m.BatchesContended.Inc()
}

// ObserveTransfer records a payment-rail call duration in seconds.
func (m *Metrics) ObserveTransfer(seconds float64) {
	if m == nil {
		return
	}
	m.TransferDuration.Observe(seconds)
}

// ObserveDuplicateAuditRow records an ignored duplicate ledger transaction.
func (m *Metrics) ObserveDuplicateAuditRow() {
	if m == nil {
		return
	}
	m.DuplicateAuditRow.Inc()
}

// ObserveLock records a wallet lock.
func (m *Metrics) ObserveLock() {
	if m == nil {
		return
	}
	m.WalletsLocked.Inc()
}

// ObserveUnlock records a wallet unlock and any penalty taken.
func (m *Metrics) ObserveUnlock(early bool, penalty decimal.Decimal) {
	if m == nil {
		return
	}
	kind := "grace"
	if early {
		kind = "early"
		m.PenaltiesApplied.Observe(penalty.InexactFloat64())
	}
	m.WalletsUnlocked.WithLabelValues(kind).Inc()
}

// ObserveEvent records an outbox publish attempt.
func (m *Metrics) ObserveEvent(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

// TrackHTTP marks a request as started and returns a func that records its outcome.
func (m *Metrics) TrackHTTP() func(method, path string, status int, seconds float64) {
	if m == nil {
		return func(string, string, int, float64) {}
	}
	m.HTTPInFlight.Inc()
	return func(method, path string, status int, seconds float64) {
		m.HTTPInFlight.Dec()
		m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, path).Observe(seconds)
	}
}

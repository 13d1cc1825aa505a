package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// Processor runs one deduction batch.
type Processor interface {
	ProcessDueDeductions(ctx context.Context, now time.Time) (*domain.ProcessingSummary, error)
}

// Scheduler triggers the deduction processor on a fixed interval.
type Scheduler struct {
	processor Processor
	clock     usecase.Clock
	interval  time.Duration
	logger    zerolog.Logger
}

// Config for Scheduler.
type Config struct {
	Processor Processor
	Clock     usecase.Clock
	Interval  time.Duration
	Logger    zerolog.Logger
}

// New creates a new Scheduler. Interval defaults to one hour.
func New(cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	return &Scheduler{
		processor: cfg.Processor,
		clock:     cfg.Clock,
		interval:  cfg.Interval,
		logger:    cfg.Logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start runs a batch immediately and then once per interval until ctx is cancelled.
// Runs never overlap within one process; cross-process overlap is the processor's concern.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("deduction scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("deduction scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.processor.ProcessDueDeductions(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("deduction batch failed")
		return
	}

	if summary.Contended {
		s.logger.Info().Msg("deduction batch skipped, another run holds the lock")
		return
	}

	s.logger.Info().
		Int("processed", summary.Total()).
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Int("skipped", len(summary.Skipped)).
		Str("credited", summary.CreditedAmount().String()).
		Msg("deduction batch finished")
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// DeductionProcessor runs a deduction batch.
type DeductionProcessor interface {
	ProcessDueDeductions(ctx context.Context, now time.Time) (*domain.ProcessingSummary, error)
}

// ReportingService defines the reports served by DeductionHandler.
type ReportingService interface {
	Upcoming(ctx context.Context, within time.Duration, limit int) (*usecase.UpcomingReport, error)
	Stats(ctx context.Context) (*domain.ScheduleStats, error)
}

// DeductionHandler handles batch processing and reporting requests.
type DeductionHandler struct {
	processor DeductionProcessor
	reports   ReportingService
	clock     usecase.Clock
	logger    zerolog.Logger
}

// NewDeductionHandler creates a new DeductionHandler.
func NewDeductionHandler(processor DeductionProcessor, reports ReportingService, clock usecase.Clock, logger zerolog.Logger) *DeductionHandler {
	return &DeductionHandler{
		processor: processor,
		reports:   reports,
		clock:     clock,
		logger:    logger,
	}
}

// Process runs one batch at the current time. A batch that finds another run in progress
// answers 409 with an empty summary.
func (h *DeductionHandler) Process(w http.ResponseWriter, r *http.Request) {
	summary, err := h.processor.ProcessDueDeductions(r.Context(), h.clock.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("deduction batch aborted")
		writeDomainError(w, "failed to process deductions", err)
		return
	}

	status := http.StatusOK
	if summary.Contended {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ProcessingSummaryFromDomain(summary))
}

// Upcoming lists schedules due within the requested window.
func (h *DeductionHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	within, err := parseWindowQuery(r, "within")
	if err != nil {
		writeDomainError(w, "invalid window", err)
		return
	}

	report, err := h.reports.Upcoming(r.Context(), within, parseIntQuery(r, "limit", 20))
	if err != nil {
		writeDomainError(w, "failed to list upcoming deductions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UpcomingFromReport(report))
}

// Stats aggregates active schedules.
func (h *DeductionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		writeDomainError(w, "failed to get deduction stats", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsFromDomain(stats))
}

package handler

import (
	"context"
	"net/http"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// ScheduleService defines the behavior needed by ScheduleHandler.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, input usecase.CreateScheduleInput) (*domain.AutoDeductionSchedule, error)
	UpdateSchedule(ctx context.Context, input usecase.UpdateScheduleInput) (*domain.AutoDeductionSchedule, error)
	DeleteSchedule(ctx context.Context, userID, scheduleID string) error
	ListSchedules(ctx context.Context, userID string) ([]*domain.AutoDeductionSchedule, error)
}

// ScheduleHandler handles auto-deduction schedule requests.
type ScheduleHandler struct {
	scheduleUC ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleUC ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleUC: scheduleUC}
}

// Create creates a schedule.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid schedule", err)
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, "invalid schedule", err)
		return
	}

	schedule, err := h.scheduleUC.CreateSchedule(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScheduleFromDomain(schedule))
}

// List lists the schedules of a user.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	schedules, err := h.scheduleUC.ListSchedules(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "failed to list schedules", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SchedulesFromDomain(schedules))
}

// Update applies a partial update to a schedule.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	scheduleID, ok := pathParam(w, r, "scheduleID")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid schedule update", err)
		return
	}

	input, err := req.ToUseCaseInput(userID, scheduleID)
	if err != nil {
		writeDomainError(w, "invalid schedule update", err)
		return
	}

	schedule, err := h.scheduleUC.UpdateSchedule(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to update schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleFromDomain(schedule))
}

// Delete removes a schedule.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	scheduleID, ok := pathParam(w, r, "scheduleID")
	if !ok {
		return
	}

	if err := h.scheduleUC.DeleteSchedule(r.Context(), userID, scheduleID); err != nil {
		writeDomainError(w, "failed to delete schedule", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

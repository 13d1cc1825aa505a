package usecase

import (
	"context"
	"time"

	"github.com/iho/autosave/internal/domain"
)

// DefaultUpcomingWindow is how far ahead Upcoming looks when no window is given.
const DefaultUpcomingWindow = 7 * 24 * time.Hour

// ReportingUseCase exposes read-only projections over schedules.
type ReportingUseCase struct {
	scheduleRepo ScheduleRepository
	clock        Clock
}

// NewReportingUseCase creates a new ReportingUseCase.
func NewReportingUseCase(scheduleRepo ScheduleRepository, clock Clock) *ReportingUseCase {
	return &ReportingUseCase{
		scheduleRepo: scheduleRepo,
		clock:        clock,
	}
}

// UpcomingReport lists active schedules due within a window.
type UpcomingReport struct {
	GeneratedAt  time.Time
	Until        time.Time
	Schedules    []*domain.UpcomingSchedule
	OverdueCount int64
}

// Upcoming lists active schedules due before now+within, oldest first, with the number of
// schedules already overdue.
func (uc *ReportingUseCase) Upcoming(ctx context.Context, within time.Duration, limit int) (*UpcomingReport, error) {
	if within <= 0 {
		within = DefaultUpcomingWindow
	}
	limit, _ = domain.ValidatePagination(limit, 0)

	now := uc.clock.Now().UTC()
	until := now.Add(within)

	schedules, err := uc.scheduleRepo.ListUpcoming(ctx, until, limit)
	if err != nil {
		return nil, err
	}

	stats, err := uc.scheduleRepo.Stats(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, s := range schedules {
		s.Overdue = !s.Schedule.NextDueDate.After(now)
	}

	return &UpcomingReport{
		GeneratedAt:  now,
		Until:        until,
		Schedules:    schedules,
		OverdueCount: stats.OverdueCount,
	}, nil
}

// Stats aggregates active schedules.
func (uc *ReportingUseCase) Stats(ctx context.Context) (*domain.ScheduleStats, error) {
	return uc.scheduleRepo.Stats(ctx, uc.clock.Now().UTC())
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// ScheduleService is the Control Surface of spec.md section 5: it validates
// and mutates Schedule lifecycle state (Create/Pause/Resume/Delete) on
// behalf of the REST layer. The Scheduler Engine never calls into this
// package - it reads Schedules directly through the repository.
type ScheduleService struct {
	schedules *repository.ScheduleRepository
	targets   *repository.TargetRepository
	clock     clock.Clock
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(schedules *repository.ScheduleRepository, targets *repository.TargetRepository, c clock.Clock) *ScheduleService {
	if c == nil {
		c = clock.Real{}
	}
	return &ScheduleService{schedules: schedules, targets: targets, clock: c}
}

// Create validates and persists a new Schedule. A window schedule without
// duration_seconds, or a reference to a missing Target, is rejected before
// any row is written.
func (s *ScheduleService) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if _, err := s.targets.Get(ctx, req.TargetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrTargetMissing
		}
		return nil, err
	}

	if req.Type == models.ScheduleTypeWindow && (req.DurationSeconds == nil || *req.DurationSeconds < 1) {
		return nil, fmt.Errorf("%w: window schedules require duration_seconds >= 1", models.ErrValidation)
	}

	timeout := req.RequestTimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	now := s.clock.Now()
	schedule := &models.Schedule{
		ID:                    uuid.New(),
		TargetID:              req.TargetID,
		Type:                  req.Type,
		IntervalSeconds:       req.IntervalSeconds,
		DurationSeconds:       req.DurationSeconds,
		Status:                models.ScheduleStatusActive,
		StartedAt:             now,
		MaxRetries:            req.MaxRetries,
		RequestTimeoutSeconds: timeout,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if req.Type == models.ScheduleTypeWindow {
		expires := now.Add(time.Duration(*req.DurationSeconds) * time.Second)
		schedule.ExpiresAt = &expires
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return schedule, nil
}

// Get retrieves a Schedule by ID.
func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	return s.schedules.Get(ctx, id)
}

// List returns Schedules matching the filter.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	return s.schedules.List(ctx, filter)
}

// Pause transitions an active Schedule to paused. Pausing does not extend a
// window schedule's expires_at - paused wall-clock time still counts
// against the deadline (spec.md section 9, paused-time decision).
func (s *ScheduleService) Pause(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule, err := s.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusActive {
		return nil, fmt.Errorf("%w: schedule is %s, not active", models.ErrInvalidTransition, schedule.Status)
	}
	now := s.clock.Now()
	if err := s.schedules.UpdateStatus(ctx, id, models.ScheduleStatusPaused, now); err != nil {
		return nil, err
	}
	schedule.Status = models.ScheduleStatusPaused
	schedule.UpdatedAt = now
	return schedule, nil
}

// Resume transitions a paused Schedule back to active. A resumed window
// schedule that has meanwhile passed its expires_at is picked up and
// completed by the engine's next tick, not by this call.
func (s *ScheduleService) Resume(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule, err := s.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusPaused {
		return nil, fmt.Errorf("%w: schedule is %s, not paused", models.ErrInvalidTransition, schedule.Status)
	}
	now := s.clock.Now()
	if err := s.schedules.UpdateStatus(ctx, id, models.ScheduleStatusActive, now); err != nil {
		return nil, err
	}
	schedule.Status = models.ScheduleStatusActive
	schedule.UpdatedAt = now
	return schedule, nil
}

// Delete removes a Schedule, cascading to its Runs and Attempts.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.schedules.Delete(ctx, id)
}

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/metrics"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// RunExecutor implements the per-run state machine of spec.md section 4.3:
// open Run, attempt loop up to 1+max_retries times, close Run, release the
// Registry entry on every exit path.
type RunExecutor struct {
	targets    *repository.TargetRepository
	runs       *repository.RunRepository
	attempts   *repository.AttemptRepository
	dispatcher *Dispatcher
	registry   *Registry
	clock      clock.Clock
	log        *slog.Logger
}

// NewRunExecutor wires a RunExecutor from its dependencies.
func NewRunExecutor(
	targets *repository.TargetRepository,
	runs *repository.RunRepository,
	attempts *repository.AttemptRepository,
	dispatcher *Dispatcher,
	registry *Registry,
	c clock.Clock,
	log *slog.Logger,
) *RunExecutor {
	if c == nil {
		c = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &RunExecutor{
		targets:    targets,
		runs:       runs,
		attempts:   attempts,
		dispatcher: dispatcher,
		registry:   registry,
		clock:      c,
		log:        log,
	}
}

// Run drives one admitted schedule S through its entire state machine. The
// caller must have already won admission via Registry.TryAdmit(schedule.ID);
// Run guarantees a matching Release on every return path.
func (e *RunExecutor) Run(ctx context.Context, schedule models.Schedule) {
	defer e.registry.Release(schedule.ID)

	now := e.clock.Now()
	run := &models.Run{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		Status:     models.RunStatusPending,
		StartedAt:  now,
	}

	// Opened with a background context, like the failure paths below, so a
	// Run admitted just as cancellation arrives is still recorded and then
	// closed as canceled by the attempt loop.
	if err := e.runs.OpenRun(context.Background(), run, schedule.ID, now); err != nil {
		e.log.Error("run executor: failed to open run", "schedule_id", schedule.ID, "error", err)
		return
	}

	timeout := time.Duration(schedule.RequestTimeoutSeconds) * time.Second
	maxAttempts := 1 + schedule.MaxRetries

	var lastSuccess bool
	for attemptNumber := 1; attemptNumber <= maxAttempts; attemptNumber++ {
		select {
		case <-ctx.Done():
			e.recordCanceled(ctx, run.ID, attemptNumber)
			e.finalizeFailed(ctx, run, e.clock.Now())
			return
		default:
		}

		// Resolved fresh on every attempt so a Target update observed between
		// attempts is picked up by the next one, per the spec's "next Attempt
		// reads the latest target snapshot" rule.
		target, err := e.targets.Get(ctx, schedule.TargetID)
		if errors.Is(err, models.ErrNotFound) {
			e.finalizeTargetMissing(ctx, run, attemptNumber)
			return
		}
		if err != nil {
			e.log.Error("run executor: failed to resolve target", "schedule_id", schedule.ID, "run_id", run.ID, "error", err)
			e.finalizeFailed(ctx, run, e.clock.Now())
			return
		}

		outcome := e.dispatcher.Dispatch(ctx, target, timeout)
		attempt := &models.Attempt{
			ID:                uuid.New(),
			RunID:             run.ID,
			AttemptNumber:     attemptNumber,
			StatusCode:        outcome.StatusCode,
			LatencyMs:         outcome.LatencyMs,
			ResponseSizeBytes: outcome.ResponseSizeBytes,
			ErrorType:         outcome.ErrorType,
			ErrorMessage:      outcome.ErrorMessage,
			StartedAt:         outcome.StartedAt,
			CompletedAt:       outcome.CompletedAt,
		}
		if err := e.attempts.Append(ctx, attempt); err != nil {
			e.log.Error("run executor: failed to persist attempt", "run_id", run.ID, "attempt_number", attemptNumber, "error", err)
		}

		lastSuccess = attempt.IsSuccess()
		if lastSuccess {
			break
		}
	}

	status := models.RunStatusFailed
	if lastSuccess {
		status = models.RunStatusSuccess
	}
	completed := e.clock.Now()
	if err := e.runs.Finalize(ctx, run.ID, status, completed); err != nil {
		e.log.Error("run executor: failed to finalize run", "run_id", run.ID, "error", err)
	}
	metrics.RunsDispatchedTotal.WithLabelValues(string(status)).Inc()
}

// finalizeTargetMissing closes the Run as failed with a single synthetic
// Attempt, per spec.md section 4.3's handling of a cascaded-delete race.
func (e *RunExecutor) finalizeTargetMissing(ctx context.Context, run *models.Run, attemptNumber int) {
	now := e.clock.Now()
	errType := models.ErrorTypeUnknown
	errMsg := "target missing"
	attempt := &models.Attempt{
		ID:            uuid.New(),
		RunID:         run.ID,
		AttemptNumber: attemptNumber,
		ErrorType:     &errType,
		ErrorMessage:  &errMsg,
		StartedAt:     now,
		CompletedAt:   now,
	}
	if err := e.attempts.Append(ctx, attempt); err != nil {
		e.log.Error("run executor: failed to persist target-missing attempt", "run_id", run.ID, "error", err)
	}
	e.finalizeFailed(ctx, run, now)
}

// recordCanceled persists a synthetic canceled Attempt when shutdown
// cancellation arrives mid-loop (spec.md section 4.1, "canceled ones
// recorded as error_type = unknown, error_message = canceled").
func (e *RunExecutor) recordCanceled(ctx context.Context, runID uuid.UUID, attemptNumber int) {
	now := e.clock.Now()
	errType := models.ErrorTypeUnknown
	errMsg := "canceled"
	attempt := &models.Attempt{
		ID:            uuid.New(),
		RunID:         runID,
		AttemptNumber: attemptNumber,
		ErrorType:     &errType,
		ErrorMessage:  &errMsg,
		StartedAt:     now,
		CompletedAt:   now,
	}
	if err := e.attempts.Append(context.Background(), attempt); err != nil {
		e.log.Error("run executor: failed to persist canceled attempt", "run_id", runID, "error", err)
	}
}

func (e *RunExecutor) finalizeFailed(ctx context.Context, run *models.Run, completed time.Time) {
	if err := e.runs.Finalize(context.Background(), run.ID, models.RunStatusFailed, completed); err != nil {
		e.log.Error("run executor: failed to finalize run as failed", "run_id", run.ID, "error", err)
	}
	metrics.RunsDispatchedTotal.WithLabelValues(string(models.RunStatusFailed)).Inc()
}

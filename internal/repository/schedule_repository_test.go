package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/stretchr/testify/require"
)

func createTestTarget(t *testing.T, repo *TargetRepository) *models.Target {
	t.Helper()
	target := newTestTarget()
	require.NoError(t, repo.Create(context.Background(), target))
	return target
}

func TestScheduleListActiveOnlyReturnsActive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	targetRepo := NewTargetRepository(db)
	scheduleRepo := NewScheduleRepository(db)

	target := createTestTarget(t, targetRepo)

	active := &models.Schedule{ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval, IntervalSeconds: 5, Status: models.ScheduleStatusActive}
	paused := &models.Schedule{ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval, IntervalSeconds: 5, Status: models.ScheduleStatusPaused}
	require.NoError(t, scheduleRepo.Create(ctx, active))
	require.NoError(t, scheduleRepo.Create(ctx, paused))

	schedules, err := scheduleRepo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.Equal(t, active.ID, schedules[0].ID)
}

func TestScheduleUpdateStatusNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewScheduleRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.ScheduleStatusPaused, time.Now())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestScheduleDeleteCascadesToRunsAndAttempts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	targetRepo := NewTargetRepository(db)
	scheduleRepo := NewScheduleRepository(db)
	runRepo := NewRunRepository(db)
	attemptRepo := NewAttemptRepository(db)

	target := createTestTarget(t, targetRepo)
	schedule := &models.Schedule{ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval, IntervalSeconds: 5, Status: models.ScheduleStatusActive}
	require.NoError(t, scheduleRepo.Create(ctx, schedule))

	run := &models.Run{ID: uuid.New(), ScheduleID: schedule.ID, Status: models.RunStatusPending, StartedAt: time.Now()}
	require.NoError(t, runRepo.OpenRun(ctx, run, schedule.ID, run.StartedAt))

	code := 200
	require.NoError(t, attemptRepo.Append(ctx, &models.Attempt{
		ID: uuid.New(), RunID: run.ID, AttemptNumber: 1, StatusCode: &code,
		StartedAt: run.StartedAt, CompletedAt: run.StartedAt,
	}))

	require.NoError(t, scheduleRepo.Delete(ctx, schedule.ID))

	var attemptCount int64
	db.Model(&models.Attempt{}).Where("run_id = ?", run.ID).Count(&attemptCount)
	require.Zero(t, attemptCount)
}

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestTarget() *models.Target {
	return &models.Target{ID: uuid.New(), Name: "api", URL: "https://example.test", Method: "GET"}
}

func TestTargetCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewTargetRepository(db)
	ctx := context.Background()

	target := newTestTarget()
	require.NoError(t, repo.Create(ctx, target))

	got, err := repo.Get(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, target.Name, got.Name)
}

func TestTargetGetNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewTargetRepository(db)

	_, err := repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestTargetUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewTargetRepository(db)
	ctx := context.Background()

	target := newTestTarget()
	require.NoError(t, repo.Create(ctx, target))

	target.Name = "renamed"
	require.NoError(t, repo.Update(ctx, target))

	got, err := repo.Get(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
}

func TestTargetDeleteCascadesToSchedulesRunsAndAttempts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	targetRepo := NewTargetRepository(db)
	scheduleRepo := NewScheduleRepository(db)
	runRepo := NewRunRepository(db)

	target := newTestTarget()
	require.NoError(t, targetRepo.Create(ctx, target))

	schedule := &models.Schedule{
		ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval,
		IntervalSeconds: 5, Status: models.ScheduleStatusActive, MaxRetries: 0, RequestTimeoutSeconds: 30,
	}
	require.NoError(t, scheduleRepo.Create(ctx, schedule))

	run := &models.Run{ID: uuid.New(), ScheduleID: schedule.ID, Status: models.RunStatusPending}
	require.NoError(t, runRepo.OpenRun(ctx, run, schedule.ID, run.StartedAt))

	require.NoError(t, targetRepo.Delete(ctx, target.ID))

	_, err := scheduleRepo.Get(ctx, schedule.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	var runCount int64
	db.Model(&models.Run{}).Where("schedule_id = ?", schedule.ID).Count(&runCount)
	require.Zero(t, runCount)
}

func TestTargetDeleteNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewTargetRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, models.ErrNotFound)
}

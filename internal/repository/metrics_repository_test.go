package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMetricsAggregateComputesTotalsAndBreakdown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	targetRepo := NewTargetRepository(db)
	scheduleRepo := NewScheduleRepository(db)
	runRepo := NewRunRepository(db)
	attemptRepo := NewAttemptRepository(db)
	metricsRepo := NewMetricsRepository(db)

	target := createTestTarget(t, targetRepo)

	active := &models.Schedule{ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval, IntervalSeconds: 5, Status: models.ScheduleStatusActive}
	paused := &models.Schedule{ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval, IntervalSeconds: 5, Status: models.ScheduleStatusPaused}
	require.NoError(t, scheduleRepo.Create(ctx, active))
	require.NoError(t, scheduleRepo.Create(ctx, paused))

	now := time.Now().UTC()
	successRun := &models.Run{ID: uuid.New(), ScheduleID: active.ID, Status: models.RunStatusPending, StartedAt: now}
	require.NoError(t, runRepo.OpenRun(ctx, successRun, active.ID, now))
	require.NoError(t, runRepo.Finalize(ctx, successRun.ID, models.RunStatusSuccess, now.Add(time.Second)))
	code := 200
	require.NoError(t, attemptRepo.Append(ctx, &models.Attempt{
		ID: uuid.New(), RunID: successRun.ID, AttemptNumber: 1, StatusCode: &code,
		LatencyMs: 100, StartedAt: now, CompletedAt: now.Add(100 * time.Millisecond),
	}))

	failedRun := &models.Run{ID: uuid.New(), ScheduleID: active.ID, Status: models.RunStatusPending, StartedAt: now}
	require.NoError(t, runRepo.OpenRun(ctx, failedRun, active.ID, now))
	require.NoError(t, runRepo.Finalize(ctx, failedRun.ID, models.RunStatusFailed, now.Add(time.Second)))
	errType := models.ErrorTypeHTTP5xx
	require.NoError(t, attemptRepo.Append(ctx, &models.Attempt{
		ID: uuid.New(), RunID: failedRun.ID, AttemptNumber: 1, ErrorType: &errType,
		LatencyMs: 200, StartedAt: now, CompletedAt: now.Add(200 * time.Millisecond),
	}))

	metrics, err := metricsRepo.Aggregate(ctx)
	require.NoError(t, err)

	require.Equal(t, int64(2), metrics.Totals.TotalSchedules)
	require.Equal(t, int64(1), metrics.Totals.ActiveSchedules)
	require.Equal(t, int64(1), metrics.Totals.PausedSchedules)
	require.Equal(t, int64(2), metrics.Totals.TotalRuns)
	require.Equal(t, int64(1), metrics.Totals.TotalSuccess)
	require.Equal(t, int64(1), metrics.Totals.TotalFailures)
	require.InDelta(t, 150, metrics.Totals.AvgLatencyMs, 0.01)

	require.Len(t, metrics.Schedules, 1)
	require.Equal(t, active.ID, metrics.Schedules[0].ScheduleID)
	require.Equal(t, int64(2), metrics.Schedules[0].TotalRuns)
	require.Equal(t, int64(1), metrics.Schedules[0].SuccessCount)
	require.Equal(t, int64(1), metrics.Schedules[0].FailureCount)
}

func TestMetricsAggregateWithNoData(t *testing.T) {
	db := openTestDB(t)
	metricsRepo := NewMetricsRepository(db)

	metrics, err := metricsRepo.Aggregate(context.Background())
	require.NoError(t, err)
	require.Zero(t, metrics.Totals.TotalSchedules)
	require.Zero(t, metrics.Totals.TotalRuns)
	require.Empty(t, metrics.Schedules)
}

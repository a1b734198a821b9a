package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, mc *clock.Manual) (*Engine, *repository.TargetRepository, *repository.ScheduleRepository, *repository.RunRepository) {
	db := openTestDB(t)
	targets := repository.NewTargetRepository(db)
	schedules := repository.NewScheduleRepository(db)
	runs := repository.NewRunRepository(db)
	attempts := repository.NewAttemptRepository(db)
	registry := NewRegistry()
	dispatcher := NewDispatcher(0, mc)
	executor := NewRunExecutor(targets, runs, attempts, dispatcher, registry, mc, discardLogger())
	engine := NewEngine(schedules, runs, executor, registry, nil, mc, discardLogger(), time.Millisecond, time.Second)
	return engine, targets, schedules, runs
}

// TestEngineExpiresWindowScheduleWithoutDispatch exercises spec scenario 2
// (window auto-complete) directly against the tick predicates, without
// depending on wall-clock ticker timing.
func TestEngineExpiresWindowScheduleWithoutDispatch(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	engine, targets, schedules, _ := newTestEngine(t, mc)
	ctx := context.Background()

	target := &models.Target{ID: uuid.New(), Name: "t", URL: "http://example.test", Method: "GET"}
	require.NoError(t, targets.Create(ctx, target))

	duration := 3
	started := mc.Now()
	expires := started.Add(time.Duration(duration) * time.Second)
	schedule := models.Schedule{
		ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeWindow,
		IntervalSeconds: 1, DurationSeconds: &duration, Status: models.ScheduleStatusActive,
		StartedAt: started, ExpiresAt: &expires, RequestTimeoutSeconds: 5,
	}
	require.NoError(t, schedules.Create(ctx, &schedule))

	mc.Advance(3 * time.Second)
	require.True(t, engine.expired(schedule, mc.Now()))
	require.False(t, engine.due(schedule, mc.Now()))
}

// TestEngineDueDetectionUsesLastRunAt exercises the due() predicate in
// spec scenario 1 (interval dispatch): never-run is due immediately, and a
// schedule becomes due again only once interval_seconds has elapsed since
// last_run_at.
func TestEngineDueDetectionUsesLastRunAt(t *testing.T) {
	mc := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	engine, _, _, _ := newTestEngine(t, mc)

	schedule := models.Schedule{
		Type: models.ScheduleTypeInterval, IntervalSeconds: 2,
	}
	require.True(t, engine.due(schedule, mc.Now()), "a schedule that has never run is due immediately")

	last := mc.Now()
	schedule.LastRunAt = &last
	require.False(t, engine.due(schedule, mc.Now().Add(time.Second)), "due before interval_seconds elapses")
	require.True(t, engine.due(schedule, mc.Now().Add(2*time.Second)), "due once interval_seconds elapses")
}

// TestEngineTickDispatchesDueScheduleAndRecordsRun drives a full tick
// loop iteration end to end: a due interval schedule is admitted, a Run
// Executor dispatches against a live HTTP test server, and exactly one Run is
// persisted with status success.
func TestEngineTickDispatchesDueScheduleAndRecordsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	mc := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	engine, targets, schedules, runs := newTestEngine(t, mc)
	ctx := context.Background()

	target := &models.Target{ID: uuid.New(), Name: "t", URL: srv.URL, Method: "GET"}
	require.NoError(t, targets.Create(ctx, target))

	schedule := models.Schedule{
		ID: uuid.New(), TargetID: target.ID, Type: models.ScheduleTypeInterval,
		IntervalSeconds: 2, Status: models.ScheduleStatusActive, RequestTimeoutSeconds: 5,
	}
	require.NoError(t, schedules.Create(ctx, &schedule))

	require.NoError(t, engine.Start(ctx))
	defer engine.Stop()

	require.Eventually(t, func() bool {
		list, err := runs.List(ctx, models.RunFilter{ScheduleID: &schedule.ID})
		return err == nil && len(list.Runs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	list, err := runs.List(ctx, models.RunFilter{ScheduleID: &schedule.ID})
	require.NoError(t, err)
	require.Len(t, list.Runs, 1)
	require.Equal(t, models.RunStatusSuccess, list.Runs[0].Status)
}

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/metrics"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// Engine is the Scheduler Engine tick loop of spec.md section 4.1: a single
// long-lived cooperative task that selects due schedules and spawns a Run
// Executor per admitted schedule, adapted from the teacher's Scheduler but
// replacing its cron-expression/leader-lock model with the due()/expired()
// predicates over last_run_at that this spec requires.
type Engine struct {
	schedules *repository.ScheduleRepository
	runs      *repository.RunRepository
	executor  *RunExecutor
	registry  *Registry
	locker    ScheduleLocker
	clock     clock.Clock
	log       *slog.Logger

	pollInterval  time.Duration
	shutdownGrace time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewEngine wires an Engine from its dependencies. locker may be nil, in
// which case the optional secondary admission check is skipped entirely.
func NewEngine(
	schedules *repository.ScheduleRepository,
	runs *repository.RunRepository,
	executor *RunExecutor,
	registry *Registry,
	locker ScheduleLocker,
	c clock.Clock,
	log *slog.Logger,
	pollInterval time.Duration,
	shutdownGrace time.Duration,
) *Engine {
	if c == nil {
		c = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if shutdownGrace <= 0 {
		shutdownGrace = 5 * time.Second
	}
	return &Engine{
		schedules:     schedules,
		runs:          runs,
		executor:      executor,
		registry:      registry,
		locker:        locker,
		clock:         c,
		log:           log,
		pollInterval:  pollInterval,
		shutdownGrace: shutdownGrace,
	}
}

// Start runs the orphan-recovery sweep, then launches the tick loop in a
// background goroutine. Calling Start again without an intervening Stop is a
// no-op that returns nil.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.mu.Unlock()

	n, err := e.runs.MarkOrphansOnStartup(e.ctx, e.clock.Now())
	if err != nil {
		e.log.Error("engine: orphan recovery sweep failed", "error", err)
	} else if n > 0 {
		e.log.Info("engine: marked orphaned runs from unclean shutdown", "count", n)
		metrics.OrphansRecoveredTotal.Add(float64(n))
	}

	e.wg.Add(1)
	go e.tickLoop()
	return nil
}

// Stop signals cancellation and waits bounded for in-flight Run Executors to
// finish, per spec.md section 4.1's shutdown contract.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(e.shutdownGrace):
		e.log.Warn("engine: shutdown grace period elapsed with executors still in flight")
	}
}

func (e *Engine) tickLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick is infallible by construction: every error is logged and swallowed so
// one bad schedule or a transient database error never halts the loop
// (spec.md section 4.1's failure-handling contract).
func (e *Engine) tick() {
	tickStart := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(tickStart).Seconds()) }()

	schedules, err := e.schedules.ListActive(e.ctx)
	if err != nil {
		e.log.Error("engine: failed to list active schedules", "error", err)
		return
	}

	metrics.RegistrySize.Set(float64(e.registry.Size()))
	now := e.clock.Now()
	for _, schedule := range schedules {
		if e.expired(schedule, now) {
			if err := e.schedules.UpdateStatus(e.ctx, schedule.ID, models.ScheduleStatusCompleted, now); err != nil {
				e.log.Error("engine: failed to complete expired schedule", "schedule_id", schedule.ID, "error", err)
			}
			continue
		}
		if !e.due(schedule, now) {
			continue
		}
		e.admitAndDispatch(schedule)
	}
}

// expired implements expired(S) := S.type = window AND now >= S.expires_at.
func (e *Engine) expired(s models.Schedule, now time.Time) bool {
	return s.Type == models.ScheduleTypeWindow && s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// due implements due(S) := !expired(S) AND (S.last_run_at IS NULL OR
// now >= S.last_run_at + S.interval_seconds). An expired schedule is never
// due, even if it has never run.
func (e *Engine) due(s models.Schedule, now time.Time) bool {
	if e.expired(s, now) {
		return false
	}
	if s.LastRunAt == nil {
		return true
	}
	next := s.LastRunAt.Add(time.Duration(s.IntervalSeconds) * time.Second)
	return !now.Before(next)
}

// admitAndDispatch wins admission into the Active-Execution Registry (and,
// if configured, the optional Redis ScheduleLocker) and spawns a Run
// Executor. A failed admission is skipped silently - the next tick
// re-evaluates due() from scratch.
func (e *Engine) admitAndDispatch(schedule models.Schedule) {
	if !e.registry.TryAdmit(schedule.ID) {
		return
	}

	if e.locker != nil {
		ok, err := e.locker.TryAcquire(e.ctx, schedule.ID, e.pollInterval*10)
		if err != nil {
			e.log.Warn("engine: schedule lock acquire failed, proceeding on registry alone", "schedule_id", schedule.ID, "error", err)
		} else if !ok {
			e.registry.Release(schedule.ID)
			return
		}
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if e.locker != nil {
			defer e.locker.Release(context.Background(), schedule.ID)
		}
		e.executor.Run(e.ctx, schedule)
	}()
}

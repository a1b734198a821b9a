package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ScheduleLocker is an opportunistic, secondary admission check a future
// multi-worker deployment could rely on. Per spec.md section 5, the
// Registry alone is sufficient and authoritative for the single-process
// core; ScheduleLocker is never required for correctness here and a nil
// locker disables it entirely.
type ScheduleLocker interface {
	TryAcquire(ctx context.Context, scheduleID uuid.UUID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, scheduleID uuid.UUID) error
}

// RedisScheduleLocker guards schedule IDs with Redis SETNX, adapted from
// the distributed leader lock pattern used for a single global key -
// generalized here to one key per schedule ID.
type RedisScheduleLocker struct {
	client   *redis.Client
	workerID string
}

// NewRedisScheduleLocker creates a locker bound to workerID, which must be
// unique per process.
func NewRedisScheduleLocker(client *redis.Client, workerID string) *RedisScheduleLocker {
	return &RedisScheduleLocker{client: client, workerID: workerID}
}

func (l *RedisScheduleLocker) key(scheduleID uuid.UUID) string {
	return fmt.Sprintf("httpcron:schedule-lock:%s", scheduleID)
}

// TryAcquire attempts to set the schedule's lock key with NX semantics.
func (l *RedisScheduleLocker) TryAcquire(ctx context.Context, scheduleID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(scheduleID), l.workerID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis schedule lock acquire: %w", err)
	}
	return ok, nil
}

// Release deletes the lock key if still held by this worker, via an atomic
// Lua check-and-delete script.
func (l *RedisScheduleLocker) Release(ctx context.Context, scheduleID uuid.UUID) error {
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)
	_, err := script.Run(ctx, l.client, []string{l.key(scheduleID)}, l.workerID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("redis schedule lock release: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"gorm.io/gorm"
)

// ScheduleRepository persists Schedules.
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// Get retrieves a schedule by ID.
func (r *ScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).First(&schedule, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// List returns schedules matching the filter, newest first.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	query := r.db.WithContext(ctx).Model(&models.Schedule{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var schedules []models.Schedule
	err := query.Order("created_at DESC").Find(&schedules).Error
	return schedules, err
}

// ListActive returns every schedule with status = active, the set the
// scheduler engine's tick loop evaluates due()/expired() over (spec.md
// section 4.1 step 1).
func (r *ScheduleRepository) ListActive(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ScheduleStatusActive).
		Find(&schedules).Error
	return schedules, err
}

// UpdateStatus transitions a schedule's status (Pause/Resume/auto-complete).
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ScheduleStatus, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateLastRun sets last_run_at to the Run's start time, per the reference
// answer to the "start time vs completion time" open question (spec.md
// section 9). Production code never calls this directly: RunRepository.
// OpenRun needs the identical update committed in the same transaction as
// the Run insert, so it inlines the write rather than crossing repository
// boundaries mid-transaction. This method exists as the standalone,
// directly testable form of that same operation and as the entry point for
// any future caller that only needs to touch last_run_at on its own.
func (r *ScheduleRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, runStartedAt, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run_at": runStartedAt,
			"updated_at":  now,
		}).Error
}

// Delete cascades the delete to Runs and Attempts owned by this schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Schedule{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.ErrNotFound
		}
		return cascadeDeleteSchedules(tx, []uuid.UUID{id})
	})
}

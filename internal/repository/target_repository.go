package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"gorm.io/gorm"
)

// TargetRepository persists Targets.
type TargetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new target repository.
func NewTargetRepository(db *gorm.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// Create inserts a new target.
func (r *TargetRepository) Create(ctx context.Context, target *models.Target) error {
	return r.db.WithContext(ctx).Create(target).Error
}

// Get retrieves a target by ID.
func (r *TargetRepository) Get(ctx context.Context, id uuid.UUID) (*models.Target, error) {
	var target models.Target
	err := r.db.WithContext(ctx).First(&target, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// List returns all targets, newest first.
func (r *TargetRepository) List(ctx context.Context) ([]models.Target, error) {
	var targets []models.Target
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&targets).Error
	return targets, err
}

// Update persists the full target row.
func (r *TargetRepository) Update(ctx context.Context, target *models.Target) error {
	return r.db.WithContext(ctx).Save(target).Error
}

// Delete removes the Target together with its Schedules, Runs and Attempts,
// deleting the dependents explicitly through cascadeDeleteSchedules rather
// than relying on database foreign keys; everything runs in one transaction
// so a mid-flight dispatcher read of a Target never observes a half-deleted
// row.
func (r *TargetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scheduleIDs []uuid.UUID
		if err := tx.Model(&models.Schedule{}).Where("target_id = ?", id).Pluck("id", &scheduleIDs).Error; err != nil {
			return err
		}
		if len(scheduleIDs) > 0 {
			if err := cascadeDeleteSchedules(tx, scheduleIDs); err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.Target{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// cascadeDeleteSchedules removes runs and attempts owned by the given
// schedules, then the schedules themselves. Shared by TargetRepository and
// ScheduleRepository so both delete paths produce the same ownership
// cascade spec.md section 3 requires (Target -> Schedule -> Run -> Attempt).
func cascadeDeleteSchedules(tx *gorm.DB, scheduleIDs []uuid.UUID) error {
	var runIDs []uuid.UUID
	if err := tx.Model(&models.Run{}).Where("schedule_id IN ?", scheduleIDs).Pluck("id", &runIDs).Error; err != nil {
		return err
	}
	if len(runIDs) > 0 {
		if err := tx.Where("run_id IN ?", runIDs).Delete(&models.Attempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", runIDs).Delete(&models.Run{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", scheduleIDs).Delete(&models.Schedule{}).Error
}

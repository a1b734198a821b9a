package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"gorm.io/gorm"
)

// RunRepository persists Runs.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// OpenRun inserts a pending Run and advances the owning schedule's
// last_run_at in a single transaction, exactly as spec.md section 4.3 step 1
// requires ("Ordering matters: the last_run_at update MUST be committed
// before the next scheduler tick").
func (r *RunRepository) OpenRun(ctx context.Context, run *models.Run, scheduleID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		return tx.Model(&models.Schedule{}).
			Where("id = ?", scheduleID).
			Updates(map[string]interface{}{
				"last_run_at": run.StartedAt,
				"updated_at":  now,
			}).Error
	})
}

// GetWithAttempts retrieves a Run plus its Attempts ordered by
// attempt_number ascending (spec.md section 6, GET /runs/{id}).
func (r *RunRepository) GetWithAttempts(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	var run models.Run
	err := r.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt_number ASC")
		}).
		First(&run, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns Runs matching the filter, most recently started first.
func (r *RunRepository) List(ctx context.Context, filter models.RunFilter) (*models.RunListResult, error) {
	query := r.db.WithContext(ctx).Model(&models.Run{})

	if filter.ScheduleID != nil {
		query = query.Where("schedule_id = ?", *filter.ScheduleID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("started_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("started_at <= ?", *filter.EndTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var runs []models.Run
	if err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}

	return &models.RunListResult{
		Runs:       runs,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// Finalize marks a Run success or failed and stamps completed_at, closing
// out the Run Executor state machine (spec.md section 4.3 step 3).
func (r *RunRepository) Finalize(ctx context.Context, id uuid.UUID, status models.RunStatus, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Run{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		}).Error
}

// MarkOrphansOnStartup rewrites every Run still pending from an unclean
// shutdown as failed/unknown/"interrupted" in one transaction, the
// crash-recovery sweep spec.md section 4.1 and section 9 require. Applying
// it twice is a no-op the second time since no pending Runs remain.
func (r *RunRepository) MarkOrphansOnStartup(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orphans []models.Run
		if err := tx.Where("status = ?", models.RunStatusPending).Find(&orphans).Error; err != nil {
			return err
		}
		for _, run := range orphans {
			if err := tx.Model(&models.Run{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
				"status":       models.RunStatusFailed,
				"completed_at": now,
			}).Error; err != nil {
				return err
			}
			errType := models.ErrorTypeUnknown
			errMsg := "interrupted"
			attempt := models.Attempt{
				ID:            uuid.New(),
				RunID:         run.ID,
				AttemptNumber: nextAttemptNumber(tx, run.ID),
				ErrorType:     &errType,
				ErrorMessage:  &errMsg,
				StartedAt:     run.StartedAt,
				CompletedAt:   now,
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return err
			}
		}
		count = int64(len(orphans))
		return nil
	})
	return count, err
}

func nextAttemptNumber(tx *gorm.DB, runID uuid.UUID) int {
	var max int
	tx.Model(&models.Attempt{}).Where("run_id = ?", runID).Select("COALESCE(MAX(attempt_number), 0)").Scan(&max)
	return max + 1
}

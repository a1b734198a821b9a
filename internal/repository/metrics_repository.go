package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"gorm.io/gorm"
)

// MetricsRepository computes the GET /metrics aggregate (spec.md section 6).
type MetricsRepository struct {
	db *gorm.DB
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Aggregate returns the overall totals plus a per-schedule breakdown.
func (r *MetricsRepository) Aggregate(ctx context.Context) (*models.Metrics, error) {
	db := r.db.WithContext(ctx)

	var totals models.MetricsTotals
	db.Model(&models.Schedule{}).Count(&totals.TotalSchedules)
	db.Model(&models.Schedule{}).Where("status = ?", models.ScheduleStatusActive).Count(&totals.ActiveSchedules)
	db.Model(&models.Schedule{}).Where("status = ?", models.ScheduleStatusPaused).Count(&totals.PausedSchedules)
	db.Model(&models.Run{}).Count(&totals.TotalRuns)
	db.Model(&models.Run{}).Where("status = ?", models.RunStatusSuccess).Count(&totals.TotalSuccess)
	db.Model(&models.Run{}).Where("status = ?", models.RunStatusFailed).Count(&totals.TotalFailures)

	var avgLatency float64
	db.Model(&models.Attempt{}).Select("COALESCE(AVG(latency_ms), 0)").Scan(&avgLatency)
	totals.AvgLatencyMs = avgLatency

	var rows []struct {
		ScheduleID   uuid.UUID
		TotalRuns    int64
		SuccessCount int64
		FailureCount int64
	}
	err := db.Model(&models.Run{}).
		Select(`schedule_id,
			COUNT(*) as total_runs,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as failure_count`,
			models.RunStatusSuccess, models.RunStatusFailed).
		Group("schedule_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make([]models.ScheduleMetrics, 0, len(rows))
	for _, row := range rows {
		sm := models.ScheduleMetrics{
			ScheduleID:   row.ScheduleID,
			TotalRuns:    row.TotalRuns,
			SuccessCount: row.SuccessCount,
			FailureCount: row.FailureCount,
		}

		var avg float64
		db.Model(&models.Attempt{}).
			Joins("JOIN runs ON runs.id = attempts.run_id").
			Where("runs.schedule_id = ?", row.ScheduleID).
			Select("COALESCE(AVG(attempts.latency_ms), 0)").
			Scan(&avg)
		sm.AvgLatencyMs = avg

		var schedule models.Schedule
		if db.First(&schedule, "id = ?", row.ScheduleID).Error == nil {
			sm.LastRunAt = schedule.LastRunAt
		}

		breakdown = append(breakdown, sm)
	}

	return &models.Metrics{Totals: totals, Schedules: breakdown}, nil
}

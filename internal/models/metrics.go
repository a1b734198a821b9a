package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricsTotals is the GET /metrics aggregate summary.
type MetricsTotals struct {
	TotalSchedules  int64   `json:"total_schedules"`
	ActiveSchedules int64   `json:"active_schedules"`
	PausedSchedules int64   `json:"paused_schedules"`
	TotalRuns       int64   `json:"total_runs"`
	TotalSuccess    int64   `json:"total_success"`
	TotalFailures   int64   `json:"total_failures"`
	AvgLatencyMs    float64 `json:"avg_latency_ms"`
}

// ScheduleMetrics is the per-schedule breakdown row in GET /metrics.
type ScheduleMetrics struct {
	ScheduleID   uuid.UUID  `json:"schedule_id"`
	TotalRuns    int64      `json:"total_runs"`
	SuccessCount int64      `json:"success_count"`
	FailureCount int64      `json:"failure_count"`
	AvgLatencyMs float64    `json:"avg_latency_ms"`
	LastRunAt    *time.Time `json:"last_run_at,omitempty"`
}

// Metrics is the full GET /metrics response.
type Metrics struct {
	Totals     MetricsTotals     `json:"totals"`
	Schedules  []ScheduleMetrics `json:"schedules"`
}

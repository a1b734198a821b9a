package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleType distinguishes interval schedules (run forever every N
// seconds) from window schedules (run every N seconds until a deadline,
// then auto-complete).
type ScheduleType string

const (
	ScheduleTypeInterval ScheduleType = "interval"
	ScheduleTypeWindow   ScheduleType = "window"
)

// ScheduleStatus is the lifecycle state of a Schedule.
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusPaused    ScheduleStatus = "paused"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Schedule is a recurring dispatch rule over a Target.
type Schedule struct {
	ID                    uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TargetID              uuid.UUID      `json:"target_id" gorm:"type:uuid;not null;index:idx_schedules_target;constraint:OnDelete:CASCADE"`
	Type                  ScheduleType   `json:"type" gorm:"type:varchar(20);not null"`
	IntervalSeconds       int            `json:"interval_seconds" gorm:"not null"`
	DurationSeconds       *int           `json:"duration_seconds,omitempty"`
	Status                ScheduleStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index:idx_schedules_status"`
	StartedAt             time.Time      `json:"started_at" gorm:"not null"`
	ExpiresAt             *time.Time     `json:"expires_at,omitempty"`
	LastRunAt             *time.Time     `json:"last_run_at,omitempty"`
	MaxRetries            int            `json:"max_retries" gorm:"not null;default:0"`
	RequestTimeoutSeconds int            `json:"request_timeout_seconds" gorm:"not null;default:30"`
	CreatedAt             time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName pins the GORM table name.
func (Schedule) TableName() string { return "schedules" }

// CreateScheduleRequest is the POST /schedules request body.
type CreateScheduleRequest struct {
	TargetID              uuid.UUID    `json:"target_id" validate:"required"`
	Type                  ScheduleType `json:"type" validate:"required,oneof=interval window"`
	IntervalSeconds       int          `json:"interval_seconds" validate:"required,min=1"`
	DurationSeconds       *int         `json:"duration_seconds,omitempty" validate:"omitempty,min=1"`
	MaxRetries            int          `json:"max_retries" validate:"min=0"`
	RequestTimeoutSeconds int          `json:"request_timeout_seconds" validate:"omitempty,min=1"`
}

// ScheduleFilter narrows a Schedule listing query.
type ScheduleFilter struct {
	Status ScheduleStatus
	Page   int
	Limit  int
}

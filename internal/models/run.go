package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the outcome state of a single scheduled trigger.
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one scheduled trigger of a Schedule, containing 1..N Attempts.
type Run struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleID  uuid.UUID  `json:"schedule_id" gorm:"type:uuid;not null;index:idx_runs_schedule_started;constraint:OnDelete:CASCADE"`
	Status      RunStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null;index:idx_runs_schedule_started"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Attempts []Attempt `json:"attempts,omitempty" gorm:"foreignKey:RunID"`
}

// TableName pins the GORM table name.
func (Run) TableName() string { return "runs" }

// RunFilter narrows a Run listing query per spec section 6.
type RunFilter struct {
	ScheduleID *uuid.UUID
	Status     RunStatus
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Offset     int
}

// RunListResult is a page of Runs.
type RunListResult struct {
	Runs       []Run `json:"runs"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

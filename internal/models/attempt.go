package models

import (
	"time"

	"github.com/google/uuid"
)

// ErrorType classifies why an Attempt did not produce a 2xx/3xx response.
type ErrorType string

const (
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeDNS        ErrorType = "dns"
	ErrorTypeConnection ErrorType = "connection"
	ErrorTypeHTTP4xx    ErrorType = "http_4xx"
	ErrorTypeHTTP5xx    ErrorType = "http_5xx"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Attempt is one outbound HTTP request - initial or retry - with its
// measured outcome.
type Attempt struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID             uuid.UUID  `json:"run_id" gorm:"type:uuid;not null;index:idx_attempts_run_number;constraint:OnDelete:CASCADE"`
	AttemptNumber     int        `json:"attempt_number" gorm:"not null;index:idx_attempts_run_number"`
	StatusCode        *int       `json:"status_code,omitempty"`
	LatencyMs         float64    `json:"latency_ms"`
	ResponseSizeBytes int        `json:"response_size_bytes"`
	ErrorType         *ErrorType `json:"error_type,omitempty" gorm:"type:varchar(20)"`
	ErrorMessage      *string    `json:"error_message,omitempty" gorm:"type:text"`
	StartedAt         time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt       time.Time  `json:"completed_at" gorm:"not null"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName pins the GORM table name.
func (Attempt) TableName() string { return "attempts" }

// IsSuccess reports whether the attempt's status code is in [200, 400).
func (a Attempt) IsSuccess() bool {
	return a.StatusCode != nil && *a.StatusCode >= 200 && *a.StatusCode < 400
}

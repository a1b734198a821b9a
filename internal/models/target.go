package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Target is a persisted descriptor of an external HTTP endpoint that
// Schedules fire requests against.
type Target struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	URL       string          `json:"url" gorm:"type:text;not null"`
	Method    string          `json:"method" gorm:"type:varchar(10);not null;default:'GET'"`
	Headers   json.RawMessage `json:"headers,omitempty" gorm:"type:jsonb"`
	Body      json.RawMessage `json:"body,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName pins the GORM table name.
func (Target) TableName() string { return "targets" }

// AllowedMethods enumerates the HTTP methods a Target may dispatch.
var AllowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true, "HEAD": true,
}

// CreateTargetRequest is the POST /targets request body.
type CreateTargetRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=255"`
	URL     string          `json:"url" validate:"required,url,httpurl"`
	Method  string          `json:"method" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD"`
	Headers json.RawMessage `json:"headers,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
}

// UpdateTargetRequest is the PUT /targets/{id} request body; nil fields are
// left unchanged.
type UpdateTargetRequest struct {
	Name    *string          `json:"name,omitempty"`
	URL     *string          `json:"url,omitempty" validate:"omitempty,url,httpurl"`
	Method  *string          `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD"`
	Headers *json.RawMessage `json:"headers,omitempty"`
	Body    *json.RawMessage `json:"body,omitempty"`
}

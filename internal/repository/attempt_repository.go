package repository

import (
	"context"

	"github.com/minisource/httpcron/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository persists Attempts.
type AttemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new attempt repository.
func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Append inserts one Attempt row for a Run. Each is written as soon as the
// dispatcher returns, before the next attempt begins, so partial attempt
// history survives a crash mid-run (spec.md section 4.1, "partial attempts
// are persisted as they were observed").
func (r *AttemptRepository) Append(ctx context.Context, attempt *models.Attempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

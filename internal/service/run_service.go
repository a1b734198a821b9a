package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// RunService exposes read-only access to Run/Attempt history for the REST
// layer. Runs and Attempts are written exclusively by the Run Executor.
type RunService struct {
	runs *repository.RunRepository
}

// NewRunService creates a new run service.
func NewRunService(runs *repository.RunRepository) *RunService {
	return &RunService{runs: runs}
}

// Get retrieves a Run with its Attempts ordered by attempt_number.
func (s *RunService) Get(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	return s.runs.GetWithAttempts(ctx, id)
}

// List returns Runs matching the filter.
func (s *RunService) List(ctx context.Context, filter models.RunFilter) (*models.RunListResult, error) {
	return s.runs.List(ctx, filter)
}

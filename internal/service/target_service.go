package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// TargetService handles Target business logic.
type TargetService struct {
	targets *repository.TargetRepository
	clock   clock.Clock
}

// NewTargetService creates a new target service.
func NewTargetService(targets *repository.TargetRepository, c clock.Clock) *TargetService {
	if c == nil {
		c = clock.Real{}
	}
	return &TargetService{targets: targets, clock: c}
}

// Create persists a new Target, defaulting Method to GET when unset.
func (s *TargetService) Create(ctx context.Context, req *models.CreateTargetRequest) (*models.Target, error) {
	method := req.Method
	if method == "" {
		method = "GET"
	}
	if !models.AllowedMethods[method] {
		return nil, fmt.Errorf("%w: unsupported method %q", models.ErrValidation, method)
	}

	now := s.clock.Now()
	target := &models.Target{
		ID:        uuid.New(),
		Name:      req.Name,
		URL:       req.URL,
		Method:    method,
		Headers:   req.Headers,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.targets.Create(ctx, target); err != nil {
		return nil, fmt.Errorf("create target: %w", err)
	}
	return target, nil
}

// Get retrieves a Target by ID.
func (s *TargetService) Get(ctx context.Context, id uuid.UUID) (*models.Target, error) {
	return s.targets.Get(ctx, id)
}

// List returns all Targets.
func (s *TargetService) List(ctx context.Context) ([]models.Target, error) {
	return s.targets.List(ctx)
}

// Update applies a partial update to a Target. Changes apply to the next
// Run Executor attempt only - an in-flight attempt keeps the snapshot it
// already resolved (spec.md section 9, Target-update-mid-flight decision).
func (s *TargetService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateTargetRequest) (*models.Target, error) {
	target, err := s.targets.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.URL != nil {
		target.URL = *req.URL
	}
	if req.Method != nil {
		if !models.AllowedMethods[*req.Method] {
			return nil, fmt.Errorf("%w: unsupported method %q", models.ErrValidation, *req.Method)
		}
		target.Method = *req.Method
	}
	if req.Headers != nil {
		target.Headers = *req.Headers
	}
	if req.Body != nil {
		target.Body = *req.Body
	}
	target.UpdatedAt = s.clock.Now()

	if err := s.targets.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("update target: %w", err)
	}
	return target, nil
}

// Delete removes a Target, cascading to its Schedules, Runs and Attempts.
func (s *TargetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.targets.Delete(ctx, id)
}

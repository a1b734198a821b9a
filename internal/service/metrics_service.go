package service

import (
	"context"

	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/repository"
)

// MetricsService serves the GET /metrics aggregate.
type MetricsService struct {
	metrics *repository.MetricsRepository
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(metrics *repository.MetricsRepository) *MetricsService {
	return &MetricsService{metrics: metrics}
}

// Aggregate returns the overall totals plus a per-schedule breakdown.
func (s *MetricsService) Aggregate(ctx context.Context) (*models.Metrics, error) {
	return s.metrics.Aggregate(ctx)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minisource/httpcron/internal/service"
)

// MetricsHandler serves the GET /metrics aggregate. Prometheus exposition is
// served separately over plain net/http (see cmd/main.go); this handler only
// covers the JSON control-surface endpoint spec.md section 6 requires.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Get returns overall totals plus a per-schedule breakdown.
// @Summary Get aggregate metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} models.Metrics
// @Router /metrics [get]
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	agg, err := h.metrics.Aggregate(c.Context())
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, agg)
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/service"
)

// RunHandler handles Run-related HTTP requests.
type RunHandler struct {
	runs *service.RunService
}

// NewRunHandler creates a new run handler.
func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

// Get retrieves a Run plus its Attempts ordered by attempt_number ascending.
// @Summary Get a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.Run
// @Failure 404 {object} ErrorBody
// @Router /runs/{id} [get]
func (h *RunHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid run id")
	}
	run, err := h.runs.Get(c.Context(), id)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, run)
}

// List returns Runs matching the query filters.
// @Summary List runs
// @Tags runs
// @Produce json
// @Param schedule_id query string false "Filter by schedule ID"
// @Param status query string false "Filter by status"
// @Param start_time query string false "Filter by started_at lower bound (RFC3339)"
// @Param end_time query string false "Filter by started_at upper bound (RFC3339)"
// @Param limit query int false "Page size (1..1000)" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} models.RunListResult
// @Router /runs [get]
func (h *RunHandler) List(c *fiber.Ctx) error {
	filter := models.RunFilter{
		Status: models.RunStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}

	if scheduleIDStr := c.Query("schedule_id"); scheduleIDStr != "" {
		scheduleID, err := uuid.Parse(scheduleIDStr)
		if err != nil {
			return ErrorDetail(c, fiber.StatusBadRequest, "invalid schedule_id")
		}
		filter.ScheduleID = &scheduleID
	}
	if startStr := c.Query("start_time"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return ErrorDetail(c, fiber.StatusBadRequest, "invalid start_time")
		}
		filter.StartTime = &t
	}
	if endStr := c.Query("end_time"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return ErrorDetail(c, fiber.StatusBadRequest, "invalid end_time")
		}
		filter.EndTime = &t
	}

	result, err := h.runs.List(c.Context(), filter)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, result)
}

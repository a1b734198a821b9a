package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/service"
	"github.com/minisource/httpcron/internal/validation"
)

// ScheduleHandler handles Schedule-related HTTP requests.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Create registers a new Schedule against an existing Target.
// @Summary Create a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body models.CreateScheduleRequest true "Schedule creation request"
// @Success 201 {object} models.Schedule
// @Failure 400 {object} ErrorBody
// @Failure 404 {object} ErrorBody
// @Failure 422 {object} ErrorBody
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var req models.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, "malformed request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, errs)
	}

	schedule, err := h.schedules.Create(c.Context(), &req)
	if err != nil {
		return MapServiceError(c, err)
	}
	return Created(c, schedule)
}

// Get retrieves a schedule by ID.
// @Summary Get a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.Schedule
// @Failure 404 {object} ErrorBody
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid schedule id")
	}
	schedule, err := h.schedules.Get(c.Context(), id)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, schedule)
}

// List returns Schedules, optionally filtered by status.
// @Summary List schedules
// @Tags schedules
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Schedule
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	filter := models.ScheduleFilter{
		Status: models.ScheduleStatus(c.Query("status")),
	}
	schedules, err := h.schedules.List(c.Context(), filter)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, schedules)
}

// Pause transitions an active Schedule to paused.
// @Summary Pause a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.Schedule
// @Failure 400 {object} ErrorBody
// @Failure 404 {object} ErrorBody
// @Router /schedules/{id}/pause [post]
func (h *ScheduleHandler) Pause(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid schedule id")
	}
	schedule, err := h.schedules.Pause(c.Context(), id)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, schedule)
}

// Resume transitions a paused Schedule back to active.
// @Summary Resume a schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.Schedule
// @Failure 400 {object} ErrorBody
// @Failure 404 {object} ErrorBody
// @Router /schedules/{id}/resume [post]
func (h *ScheduleHandler) Resume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid schedule id")
	}
	schedule, err := h.schedules.Resume(c.Context(), id)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, schedule)
}

// Delete removes a Schedule, cascading to its Runs and Attempts.
// @Summary Delete a schedule
// @Tags schedules
// @Param id path string true "Schedule ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorBody
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid schedule id")
	}
	if err := h.schedules.Delete(c.Context(), id); err != nil {
		return MapServiceError(c, err)
	}
	return NoContent(c)
}

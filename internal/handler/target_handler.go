package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/minisource/httpcron/internal/models"
	"github.com/minisource/httpcron/internal/service"
	"github.com/minisource/httpcron/internal/validation"
)

// TargetHandler handles Target-related HTTP requests.
type TargetHandler struct {
	targets *service.TargetService
}

// NewTargetHandler creates a new target handler.
func NewTargetHandler(targets *service.TargetService) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// Create registers a new Target.
// @Summary Create a target
// @Description Register a new HTTP endpoint Schedules can fire requests against
// @Tags targets
// @Accept json
// @Produce json
// @Param request body models.CreateTargetRequest true "Target creation request"
// @Success 201 {object} models.Target
// @Failure 422 {object} ErrorBody
// @Router /targets [post]
func (h *TargetHandler) Create(c *fiber.Ctx) error {
	var req models.CreateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, "malformed request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, errs)
	}

	target, err := h.targets.Create(c.Context(), &req)
	if err != nil {
		return MapServiceError(c, err)
	}
	return Created(c, target)
}

// Get retrieves a target by ID.
// @Summary Get a target
// @Tags targets
// @Produce json
// @Param id path string true "Target ID"
// @Success 200 {object} models.Target
// @Failure 404 {object} ErrorBody
// @Router /targets/{id} [get]
func (h *TargetHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid target id")
	}
	target, err := h.targets.Get(c.Context(), id)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, target)
}

// List returns every Target.
// @Summary List targets
// @Tags targets
// @Produce json
// @Success 200 {array} models.Target
// @Router /targets [get]
func (h *TargetHandler) List(c *fiber.Ctx) error {
	targets, err := h.targets.List(c.Context())
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, targets)
}

// Update applies a partial update to a Target.
// @Summary Update a target
// @Tags targets
// @Accept json
// @Produce json
// @Param id path string true "Target ID"
// @Param request body models.UpdateTargetRequest true "Target update request"
// @Success 200 {object} models.Target
// @Failure 404 {object} ErrorBody
// @Router /targets/{id} [put]
func (h *TargetHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid target id")
	}

	var req models.UpdateTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, "malformed request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return ErrorDetail(c, fiber.StatusUnprocessableEntity, errs)
	}

	target, err := h.targets.Update(c.Context(), id, &req)
	if err != nil {
		return MapServiceError(c, err)
	}
	return OK(c, target)
}

// Delete removes a Target, cascading to its Schedules, Runs and Attempts.
// @Summary Delete a target
// @Tags targets
// @Param id path string true "Target ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorBody
// @Router /targets/{id} [delete]
func (h *TargetHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ErrorDetail(c, fiber.StatusBadRequest, "invalid target id")
	}
	if err := h.targets.Delete(c.Context(), id); err != nil {
		return MapServiceError(c, err)
	}
	return NoContent(c)
}

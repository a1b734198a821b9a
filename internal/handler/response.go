package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/minisource/httpcron/internal/models"
)

// ErrorBody is the REST surface's mandated error envelope: detail is either
// a plain string or a validation-error array.
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}

// Created writes a 201 response.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// OK writes a 200 response.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// NoContent writes a 204 response.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ErrorDetail writes {"detail": detail} with the given status code.
func ErrorDetail(c *fiber.Ctx, status int, detail interface{}) error {
	return c.Status(status).JSON(ErrorBody{Detail: detail})
}

// MapServiceError maps a service-layer sentinel error onto the status codes
// spec.md sections 6/7 assign them, falling through to 500 for anything
// unrecognized.
func MapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return ErrorDetail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, models.ErrTargetMissing):
		return ErrorDetail(c, fiber.StatusNotFound, "target not found")
	case errors.Is(err, models.ErrInvalidTransition):
		return ErrorDetail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrValidation):
		return ErrorDetail(c, fiber.StatusBadRequest, err.Error())
	default:
		return ErrorDetail(c, fiber.StatusInternalServerError, "internal server error")
	}
}

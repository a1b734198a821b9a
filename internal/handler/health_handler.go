package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints. Unlike the rest of the
// control surface it never touches the service layer directly - it probes
// the database connection the same way the engine depends on it.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports service health, per spec.md section 6's bit-exact
// `{"status":"healthy"}` contract.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorBody
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return ErrorDetail(c, fiber.StatusServiceUnavailable, "database connection error")
	}
	if err := sqlDB.Ping(); err != nil {
		return ErrorDetail(c, fiber.StatusServiceUnavailable, "database ping failed")
	}
	return OK(c, fiber.Map{"status": "healthy"})
}

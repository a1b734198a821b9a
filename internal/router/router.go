// Package router wires the Fiber route table, adapted from the teacher's
// SetupRouter: same middleware stack and swagger mount point, routes
// renamed to the target/schedule/run/metrics REST surface this spec
// requires (bit-exact paths per spec.md section 6).
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/minisource/httpcron/internal/handler"
)

// Handlers bundles every HTTP handler the router dispatches to.
type Handlers struct {
	Target   *handler.TargetHandler
	Schedule *handler.ScheduleHandler
	Run      *handler.RunHandler
	Metrics  *handler.MetricsHandler
	Health   *handler.HealthHandler
}

// Setup configures the Fiber app's middleware and route table.
func Setup(app *fiber.App, h *Handlers) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", h.Health.Health)
	app.Get("/metrics", h.Metrics.Get)

	targets := app.Group("/targets")
	targets.Post("/", h.Target.Create)
	targets.Get("/", h.Target.List)
	targets.Get("/:id", h.Target.Get)
	targets.Put("/:id", h.Target.Update)
	targets.Delete("/:id", h.Target.Delete)

	schedules := app.Group("/schedules")
	schedules.Post("/", h.Schedule.Create)
	schedules.Get("/", h.Schedule.List)
	schedules.Get("/:id", h.Schedule.Get)
	schedules.Post("/:id/pause", h.Schedule.Pause)
	schedules.Post("/:id/resume", h.Schedule.Resume)
	schedules.Delete("/:id", h.Schedule.Delete)

	runs := app.Group("/runs")
	runs.Get("/", h.Run.List)
	runs.Get("/:id", h.Run.Get)
}

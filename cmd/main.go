package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/minisource/httpcron/config"
	"github.com/minisource/httpcron/internal/clock"
	"github.com/minisource/httpcron/internal/database"
	"github.com/minisource/httpcron/internal/handler"
	"github.com/minisource/httpcron/internal/logging"
	"github.com/minisource/httpcron/internal/metrics"
	"github.com/minisource/httpcron/internal/repository"
	"github.com/minisource/httpcron/internal/router"
	"github.com/minisource/httpcron/internal/scheduler"
	"github.com/minisource/httpcron/internal/service"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(os.Getenv("APP_ENV"), logging.ParseLevel(os.Getenv("LOG_LEVEL")))

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	metrics.Register()

	targetRepo := repository.NewTargetRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	runRepo := repository.NewRunRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	realClock := clock.Real{}
	registry := scheduler.NewRegistry()
	dispatcher := scheduler.NewDispatcher(cfg.Scheduler.MaxResponseBytes, realClock)

	var locker scheduler.ScheduleLocker
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, continuing with registry-only admission", "error", err)
			redisClient = nil
		} else {
			workerID := fmt.Sprintf("worker-%s", uuid.New().String()[:8])
			locker = scheduler.NewRedisScheduleLocker(redisClient, workerID)
		}
	}

	runExecutor := scheduler.NewRunExecutor(targetRepo, runRepo, attemptRepo, dispatcher, registry, realClock, logger)
	engine := scheduler.NewEngine(
		scheduleRepo,
		runRepo,
		runExecutor,
		registry,
		locker,
		realClock,
		logger,
		time.Duration(cfg.Scheduler.PollIntervalSeconds)*time.Second,
		time.Duration(cfg.Scheduler.ShutdownGraceSeconds)*time.Second,
	)

	targetService := service.NewTargetService(targetRepo, realClock)
	scheduleService := service.NewScheduleService(scheduleRepo, targetRepo, realClock)
	runService := service.NewRunService(runRepo)
	metricsService := service.NewMetricsService(metricsRepo)

	handlers := &router.Handlers{
		Target:   handler.NewTargetHandler(targetService),
		Schedule: handler.NewScheduleHandler(scheduleService),
		Run:      handler.NewRunHandler(runService),
		Metrics:  handler.NewMetricsHandler(metricsService),
		Health:   handler.NewHealthHandler(db),
	}

	app := fiber.New(fiber.Config{
		AppName:      "httpcron",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	})
	router.Setup(app, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := engine.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler engine: %v", err)
	}

	promServer := &http.Server{Addr: ":9090", Handler: promMux()}
	go func() {
		logger.Info("prometheus exposition listening", "addr", promServer.Addr)
		if err := promServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("prometheus server error", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("httpcron listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("fiber server error", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down httpcron")

	engine.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("fiber shutdown error", "error", err)
	}
	if err := promServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("prometheus server shutdown error", "error", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("httpcron stopped")
}

func promMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

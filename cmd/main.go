package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/config"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/handler"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/health"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/decisionrecorder"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/repository"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/taskstore"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/middleware"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/dispatcher"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	scheduleMetrics, err := metrics.NewScheduleMetrics()
	if err != nil {
		slog.Error("failed to initialize schedule metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize decision recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := decisionrecorder.LoadConfig()
	decisionRecorder, err := decisionrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize decision recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := decisionRecorder.Close(); err != nil {
			slog.Warn("failed to close decision recorder", slog.String("error", err.Error()))
		}
	}()

	taskClient := taskstore.NewClient(cfg.TaskServiceURL)

	// Initialize notification sink
	sink, cleanup, err := initSink(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notification sink", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("notification sink cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	stateRepo := repository.NewScheduleStateRepository(redisClient)
	prefRepo := repository.NewPreferenceRepository(redisClient)

	calculator := schedule.NewCalculator(cfg.Scheduler.Location)

	d := dispatcher.NewDispatcher(
		taskClient,
		sink,
		stateRepo,
		prefRepo,
		calculator,
		decisionRecorder,
		scheduleMetrics,
		cfg.Scheduler.SweepInterval,
	)
	go d.Run(ctx)

	taskEventHandler := handler.NewTaskEventHandler(d)
	scheduleHandler := handler.NewScheduleHandler(d, calculator)
	preferencesHandler := handler.NewPreferencesHandler(prefRepo)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     logging.Module("remind-scheduling"),
		TracerName: "github.com/KasumiMercury/primind-remind-scheduling/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if eventType := c.Request.Header.Get("event_type"); eventType != "" {
				return eventType
			}
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, cfg.TaskServiceURL, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/tasks/events", taskEventHandler.HandleTaskEvent)
		v1.POST("/tasks/:taskID/dismiss", taskEventHandler.HandleDismiss)
		v1.POST("/schedule/sweep", scheduleHandler.HandleSweep)
		v1.POST("/schedule/preview", scheduleHandler.HandlePreview)
		v1.GET("/users/:userID/preferences", preferencesHandler.HandleGet)
		v1.PUT("/users/:userID/preferences", preferencesHandler.HandlePut)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Duration("sweep_interval", cfg.Scheduler.SweepInterval),
			slog.String("timezone", cfg.Scheduler.Location.String()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

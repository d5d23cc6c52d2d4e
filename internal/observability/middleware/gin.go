package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/metrics"
)

type GinConfig struct {
	// SkipPaths are not logged or measured (health probes, metrics).
	SkipPaths []string
	// Module tags every request log record.
	Module logging.Module
	// TracerName names the server span tracer.
	TracerName string
	// JobNameResolver maps a request to the span/log name. Defaults to
	// the URL path.
	JobNameResolver func(c *gin.Context) string
	// HTTPMetrics receives per-request counters when non-nil.
	HTTPMetrics *metrics.HTTPMetrics
}

// Gin wires request-scoped observability: trace context extraction, a
// server span, a validated request ID and completion logging.
func Gin(cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = true
	}

	tracerName := cfg.TracerName
	if tracerName == "" {
		tracerName = "http.server"
	}
	tracer := otel.Tracer(tracerName)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		requestID := logging.ValidateAndExtractRequestID(c.GetHeader("x-request-id"))
		ctx = logging.WithRequestID(ctx, requestID)
		c.Header("x-request-id", requestID)

		name := c.Request.URL.Path
		if cfg.JobNameResolver != nil {
			name = cfg.JobNameResolver(c)
		}

		ctx, span := tracer.Start(ctx, name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.String("http.target", c.Request.URL.Path),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)

		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}

		if cfg.HTTPMetrics != nil {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}

		logFn := slog.InfoContext
		if status >= 500 {
			logFn = slog.ErrorContext
		} else if status >= 400 {
			logFn = slog.WarnContext
		}
		logFn(ctx, "request completed",
			slog.String("module", cfg.Module.String()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		)
	}
}

// PanicRecoveryGin converts panics into 500 responses with a logged
// stack-free error instead of crashing the worker.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(500, gin.H{
					"code":    "internal_error",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

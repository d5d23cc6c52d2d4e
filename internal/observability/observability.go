// Package observability assembles logging, tracing and metrics for the
// scheduling worker. Exporters are selected by build tag: OTLP over HTTP
// for local runs, Google Cloud exporters under the gcloud tag.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/logging"
)

type Config struct {
	ServiceInfo  logging.ServiceInfo
	Environment  logging.Environment
	GCPProjectID string
	// SamplingRate controls trace sampling, 0 to 1.
	SamplingRate  float64
	DefaultModule logging.Module
	LogLevel      string
}

// Resources holds the initialized providers and their shutdown hooks.
type Resources struct {
	logger    *slog.Logger
	shutdowns []func(context.Context) error
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

// Shutdown flushes and stops all providers in reverse init order.
func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.shutdowns) - 1; i >= 0; i-- {
		if err := r.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Init configures the global tracer and meter providers, the text map
// propagator and the process logger.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	res := &Resources{}

	res.logger = logging.NewLogger(cfg.ServiceInfo, cfg.Environment, cfg.DefaultModule, cfg.LogLevel, cfg.GCPProjectID)
	slog.SetDefault(res.logger)

	otelRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceInfo.Name),
			semconv.ServiceVersion(cfg.ServiceInfo.Version),
			semconv.DeploymentEnvironment(string(cfg.Environment)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build otel resource: %w", err)
	}

	traceExporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(otelRes),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tracerProvider)
	res.shutdowns = append(res.shutdowns, tracerProvider.Shutdown)

	metricReader, err := newMetricReader(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric reader: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(metricReader),
		sdkmetric.WithResource(otelRes),
	)
	otel.SetMeterProvider(meterProvider)
	res.shutdowns = append(res.shutdowns, meterProvider.Shutdown)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return res, nil
}

func newPeriodicReader(exporter sdkmetric.Exporter) sdkmetric.Reader {
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(60*time.Second))
}

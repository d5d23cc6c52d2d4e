//go:build !gcloud

package observability

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Local builds export to an OTLP HTTP collector. Endpoint and TLS are
// taken from the standard OTEL_EXPORTER_OTLP_* environment variables.

func newTraceExporter(ctx context.Context, _ Config) (sdktrace.SpanExporter, error) {
	return otlptracehttp.New(ctx)
}

func newMetricReader(ctx context.Context, _ Config) (sdkmetric.Reader, error) {
	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}
	return newPeriodicReader(exporter), nil
}

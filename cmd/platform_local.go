//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/config"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/delivery"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/logging"
)

func initSink(_ context.Context, cfg *config.Config) (delivery.Sink, func() error, error) {
	if cfg.Sink.DeliveryServiceURL == "" {
		slog.Warn("DELIVERY_SERVICE_URL not set, notification delivery disabled")

		return delivery.NewNoopSink(), nil, nil
	}

	sink := delivery.NewHTTPSink(cfg.Sink.DeliveryServiceURL, cfg.Sink.MaxRetries)

	slog.Info("notification sink initialized",
		slog.String("type", "http"),
		slog.String("url", cfg.Sink.DeliveryServiceURL),
	)

	return sink, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "remind-scheduling"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("remind-scheduling"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}

//go:build gcloud

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

func initSink(ctx context.Context, cfg *config.Config) (delivery.Sink, func() error, error) {
	sink, err := delivery.NewCloudTasksSink(ctx, delivery.CloudTasksSinkConfig{
		ProjectID:  cfg.Sink.GCloudProjectID,
		LocationID: cfg.Sink.GCloudLocationID,
		QueueID:    cfg.Sink.GCloudQueueID,
		TargetURL:  cfg.Sink.GCloudTargetURL,
		MaxRetries: cfg.Sink.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notification sink initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Sink.GCloudProjectID),
		slog.String("location", cfg.Sink.GCloudLocationID),
		slog.String("queue", cfg.Sink.GCloudQueueID),
	)

	cleanup := func() error {
		if err := sink.Close(); err != nil {
			slog.Warn("failed to close cloud tasks sink", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return sink, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "remind-scheduling"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: logging.Module("remind-scheduling"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}

//go:build !gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleDecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule decision recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, schedule decision recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "schedule decision recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordDecisions(ctx context.Context, records []domain.ScheduleDecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		runID := record.RunID
		if runID == "" {
			runID = "default"
		}

		// Use real time as timestamp to prevent overwrites between sweeps
		pointTime := time.Now()

		point := influxdb2.NewPoint(
			"schedule_decision",
			map[string]string{
				"run_id":   runID,
				"user_id":  record.UserID,
				"task_id":  record.TaskID,
				"priority": record.Priority,
			},
			map[string]any{
				"scheduled_count":        record.ScheduledCount,
				"cancelled_count":        record.CancelledCount,
				"suppressed_quiet_hours": record.SuppressedQuietHours,
				"suppressed_lead_time":   record.SuppressedLeadTime,
				"failed_count":           record.FailedCount,
				"sweep_unix":             record.SweepTime.Unix(),
			},
			pointTime,
		)

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			slog.WarnContext(ctx, "failed to write schedule decision to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("user_id", record.UserID),
				slog.String("task_id", record.TaskID),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

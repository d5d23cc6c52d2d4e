//go:build gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt           time.Time `bigquery:"recorded_at"`
	SweepTime            time.Time `bigquery:"sweep_time"`
	RunID                string    `bigquery:"run_id"`
	UserID               string    `bigquery:"user_id"`
	TaskID               string    `bigquery:"task_id"`
	Priority             string    `bigquery:"priority"`
	ScheduledCount       int64     `bigquery:"scheduled_count"`
	CancelledCount       int64     `bigquery:"cancelled_count"`
	SuppressedQuietHours int64     `bigquery:"suppressed_quiet_hours"`
	SuppressedLeadTime   int64     `bigquery:"suppressed_lead_time"`
	FailedCount          int64     `bigquery:"failed_count"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleDecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule decision recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, schedule decision recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, schedule decision recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "schedule decision recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordDecisions(ctx context.Context, records []domain.ScheduleDecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	bqRecords := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		bqRecords = append(bqRecords, &bigQueryRecord{
			RecordedAt:           now,
			SweepTime:            record.SweepTime,
			RunID:                record.RunID,
			UserID:               record.UserID,
			TaskID:               record.TaskID,
			Priority:             record.Priority,
			ScheduledCount:       int64(record.ScheduledCount),
			CancelledCount:       int64(record.CancelledCount),
			SuppressedQuietHours: int64(record.SuppressedQuietHours),
			SuppressedLeadTime:   int64(record.SuppressedLeadTime),
			FailedCount:          int64(record.FailedCount),
		})
	}

	if err := r.inserter.Put(ctx, bqRecords); err != nil {
		slog.WarnContext(ctx, "failed to insert schedule decisions to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

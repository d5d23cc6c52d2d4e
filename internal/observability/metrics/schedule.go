package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "schedule.dispatcher"
)

type ScheduleMetrics struct {
	notificationsScheduled metric.Int64Counter
	notificationsCancelled metric.Int64Counter
	candidatesSuppressed   metric.Int64Counter
	sinkFailures           metric.Int64Counter
	sweepDuration          metric.Float64Histogram
	taskSyncDuration       metric.Float64Histogram
	tasksPerSweep          metric.Int64Histogram
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	notificationsScheduled, err := meter.Int64Counter(
		"schedule_notifications_scheduled_total",
		metric.WithDescription("Total number of notifications registered with the delivery sink"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	notificationsCancelled, err := meter.Int64Counter(
		"schedule_notifications_cancelled_total",
		metric.WithDescription("Total number of pending notifications cancelled during rescheduling"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	candidatesSuppressed, err := meter.Int64Counter(
		"schedule_candidates_suppressed_total",
		metric.WithDescription("Candidate notifications rejected by quiet hours or minimum lead time"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	sinkFailures, err := meter.Int64Counter(
		"schedule_sink_failures_total",
		metric.WithDescription("Failed delivery sink operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"schedule_sweep_duration_seconds",
		metric.WithDescription("Full sweep duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	taskSyncDuration, err := meter.Float64Histogram(
		"schedule_task_sync_duration_seconds",
		metric.WithDescription("Time spent synchronizing one task's schedule"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	tasksPerSweep, err := meter.Int64Histogram(
		"schedule_tasks_per_sweep",
		metric.WithDescription("Number of tasks examined per sweep"),
		metric.WithUnit("{task}"),
		metric.WithExplicitBucketBoundaries(
			1, 5, 10, 25, 50, 100, 250, 500, 1000,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		notificationsScheduled: notificationsScheduled,
		notificationsCancelled: notificationsCancelled,
		candidatesSuppressed:   candidatesSuppressed,
		sinkFailures:           sinkFailures,
		sweepDuration:          sweepDuration,
		taskSyncDuration:       taskSyncDuration,
		tasksPerSweep:          tasksPerSweep,
	}, nil
}

func (m *ScheduleMetrics) RecordNotificationScheduled(ctx context.Context, typ, priority string) {
	m.notificationsScheduled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", typ),
		attribute.String("priority", priority),
	))
}

func (m *ScheduleMetrics) RecordNotificationsCancelled(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.notificationsCancelled.Add(ctx, int64(count))
}

func (m *ScheduleMetrics) RecordSuppressed(ctx context.Context, reason string, count int) {
	if count <= 0 {
		return
	}
	m.candidatesSuppressed.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *ScheduleMetrics) RecordSinkFailure(ctx context.Context, operation string) {
	m.sinkFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *ScheduleMetrics) RecordSweepDuration(ctx context.Context, duration time.Duration) {
	m.sweepDuration.Record(ctx, duration.Seconds())
}

func (m *ScheduleMetrics) RecordTaskSyncDuration(ctx context.Context, priority string, duration time.Duration) {
	m.taskSyncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("priority", priority),
	))
}

func (m *ScheduleMetrics) RecordTasksPerSweep(ctx context.Context, count int) {
	m.tasksPerSweep.Record(ctx, int64(count))
}

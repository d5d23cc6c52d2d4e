package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/KasumiMercury/primind-remind-scheduling/internal/service/dispatcher"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartSweepSpan(ctx context.Context, runID string, sweepTime time.Time) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.sweep",
		trace.WithAttributes(
			attribute.String("sweep.run_id", runID),
			attribute.String("sweep.time", sweepTime.Format(time.RFC3339)),
		),
	)
}

func StartUserSyncSpan(ctx context.Context, userID string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.user_sync",
		trace.WithAttributes(
			attribute.String("user_id", userID),
		),
	)
}

func StartTaskSyncSpan(ctx context.Context, userID, taskID, priority string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.task_sync",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("task_id", taskID),
			attribute.String("task.priority", priority),
		),
	)
}

func StartSinkOperationSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.sink."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordSweepResult(span trace.Span, userCount, taskCount, scheduledCount, cancelledCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.Int("sweep.user_count", userCount),
		attribute.Int("sweep.task_count", taskCount),
		attribute.Int("sweep.scheduled_count", scheduledCount),
		attribute.Int("sweep.cancelled_count", cancelledCount),
		attribute.Int("sweep.failed_count", failedCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordTaskSyncResult(span trace.Span, action string, scheduledCount, cancelledCount, failedCount int, err error) {
	span.SetAttributes(
		attribute.String("sync.action", action),
		attribute.Int("sync.scheduled_count", scheduledCount),
		attribute.Int("sync.cancelled_count", cancelledCount),
		attribute.Int("sync.failed_count", failedCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

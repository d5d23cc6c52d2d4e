package domain

import (
	"context"
	"time"
)

// ScheduleDecisionRecord captures the outcome of one task's schedule
// computation during a sweep, for offline analysis of engine behavior.
type ScheduleDecisionRecord struct {
	RunID                string
	UserID               string
	TaskID               string
	Priority             string
	SweepTime            time.Time
	ScheduledCount       int
	CancelledCount       int
	SuppressedQuietHours int
	SuppressedLeadTime   int
	FailedCount          int
}

// ScheduleDecisionRecorder records sweep outcomes to an analytics
// backend. Implementations must tolerate partial failure; recording is
// never allowed to fail a sweep.
type ScheduleDecisionRecorder interface {
	RecordDecisions(ctx context.Context, records []ScheduleDecisionRecord) error
	Flush(ctx context.Context) error
	Close() error
}

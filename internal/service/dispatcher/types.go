package dispatcher

import (
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// Action describes what a task sync did.
type Action string

const (
	ActionScheduled Action = "scheduled"
	ActionUnchanged Action = "unchanged"
	ActionRemoved   Action = "removed"
	ActionDismissed Action = "dismissed"
)

// SyncResult is the outcome of synchronizing one task's schedule with
// the delivery sink.
type SyncResult struct {
	TaskID               string
	Priority             domain.Priority
	Action               Action
	ScheduledCount       int
	CancelledCount       int
	SuppressedQuietHours int
	SuppressedLeadTime   int
	FailedCount          int
}

// UserSyncResult aggregates one user's task syncs.
type UserSyncResult struct {
	UserID  string
	Results []SyncResult
}

func (r *UserSyncResult) totals() (scheduled, cancelled, failed int) {
	for _, res := range r.Results {
		scheduled += res.ScheduledCount
		cancelled += res.CancelledCount
		failed += res.FailedCount
	}
	return
}

// SweepResult summarizes one full sweep across all users.
type SweepResult struct {
	RunID          string
	SweepTime      time.Time
	UserCount      int
	TaskCount      int
	ScheduledCount int
	CancelledCount int
	FailedCount    int
}

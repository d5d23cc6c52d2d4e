package domain

import (
	"context"
	"time"
)

// TaskState is the dispatcher's bookkeeping for one task: the
// fingerprint of the snapshot the current schedule was computed from
// and the delivery-layer handles that can cancel it.
type TaskState struct {
	TaskID      string
	Fingerprint string
	Handles     []string
	// PendingOverdueAt is the delivery time of the currently scheduled
	// overdue reminder, if any. Once it passes, the reminder counts
	// against the daily cap and the next one may be scheduled.
	PendingOverdueAt *time.Time
	UpdatedAt        time.Time
}

// ScheduleStateRepository persists dispatcher state per user. The
// calculator itself is stateless; everything date-scoped (overdue
// counters, dismissals) lives here keyed by calendar day.
type ScheduleStateRepository interface {
	GetTaskState(ctx context.Context, userID, taskID string) (*TaskState, error)
	SaveTaskState(ctx context.Context, userID string, state *TaskState) error
	DeleteTaskState(ctx context.Context, userID, taskID string) error
	ListTrackedTaskIDs(ctx context.Context, userID string) ([]string, error)

	OverdueReminderCount(ctx context.Context, userID, taskID, dayKey string) (int, error)
	IncrementOverdueReminderCount(ctx context.Context, userID, taskID, dayKey string) (int, error)
	// PruneOverdueCounters removes counters for days other than dayKey.
	PruneOverdueCounters(ctx context.Context, userID, dayKey string) error

	MarkDismissed(ctx context.Context, userID, taskID, dayKey string) error
	IsDismissed(ctx context.Context, userID, taskID, dayKey string) (bool, error)
}

// PreferenceRepository reads and writes the per-user flat preference
// record.
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
}

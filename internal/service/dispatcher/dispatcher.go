package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/delivery"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/infra/taskstore"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/tracing"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/schedule"
)

// Dispatcher keeps the delivery sink in line with what the calculator
// says each task's schedule should be. All mutation of a task's
// delivery state goes through its per-task lock, so concurrent events
// and sweeps serialize per task instead of racing.
type Dispatcher struct {
	tasks         taskstore.TaskRepository
	sink          delivery.Sink
	states        domain.ScheduleStateRepository
	prefs         domain.PreferenceRepository
	calc          *schedule.Calculator
	recorder      domain.ScheduleDecisionRecorder
	metrics       *metrics.ScheduleMetrics
	sweepInterval time.Duration

	mu        sync.Mutex
	taskLocks map[string]*sync.Mutex
}

func NewDispatcher(
	tasks taskstore.TaskRepository,
	sink delivery.Sink,
	states domain.ScheduleStateRepository,
	prefs domain.PreferenceRepository,
	calc *schedule.Calculator,
	recorder domain.ScheduleDecisionRecorder,
	scheduleMetrics *metrics.ScheduleMetrics,
	sweepInterval time.Duration,
) *Dispatcher {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Dispatcher{
		tasks:         tasks,
		sink:          sink,
		states:        states,
		prefs:         prefs,
		calc:          calc,
		recorder:      recorder,
		metrics:       scheduleMetrics,
		sweepInterval: sweepInterval,
		taskLocks:     make(map[string]*sync.Mutex),
	}
}

// Run sweeps immediately, then on every tick until the context is
// cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	if _, err := d.SweepAll(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "initial sweep failed",
			slog.String("error", err.Error()),
		)
	}

	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "dispatcher stopping")
			return
		case <-ticker.C:
			if _, err := d.SweepAll(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "sweep failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// SweepAll recomputes schedules for every user with active tasks. One
// user failing does not stop the sweep.
func (d *Dispatcher) SweepAll(ctx context.Context, now time.Time) (*SweepResult, error) {
	runID := uuid.New().String()
	started := time.Now()

	ctx, span := tracing.StartSweepSpan(ctx, runID, now)
	defer span.End()

	slog.InfoContext(ctx, "starting sweep",
		slog.String("run_id", runID),
		slog.Time("sweep_time", now),
	)

	userIDs, err := d.tasks.ListUserIDs(ctx, time.Time{})
	if err != nil {
		tracing.RecordSweepResult(span, 0, 0, 0, 0, 0, err)
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}

	result := &SweepResult{
		RunID:     runID,
		SweepTime: now,
		UserCount: len(userIDs),
	}

	records := make([]domain.ScheduleDecisionRecord, 0)
	for _, userID := range userIDs {
		userResult, err := d.SyncUser(ctx, userID, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to sync user during sweep",
				slog.String("run_id", runID),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			continue
		}

		scheduled, cancelled, failed := userResult.totals()
		result.TaskCount += len(userResult.Results)
		result.ScheduledCount += scheduled
		result.CancelledCount += cancelled
		result.FailedCount += failed

		for _, res := range userResult.Results {
			records = append(records, domain.ScheduleDecisionRecord{
				RunID:                runID,
				UserID:               userID,
				TaskID:               res.TaskID,
				Priority:             res.Priority.String(),
				SweepTime:            now,
				ScheduledCount:       res.ScheduledCount,
				CancelledCount:       res.CancelledCount,
				SuppressedQuietHours: res.SuppressedQuietHours,
				SuppressedLeadTime:   res.SuppressedLeadTime,
				FailedCount:          res.FailedCount,
			})
		}
	}

	if d.recorder != nil {
		if err := d.recorder.RecordDecisions(ctx, records); err != nil {
			slog.WarnContext(ctx, "failed to record sweep decisions",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}

	if d.metrics != nil {
		d.metrics.RecordSweepDuration(ctx, time.Since(started))
		d.metrics.RecordTasksPerSweep(ctx, result.TaskCount)
	}

	tracing.RecordSweepResult(span, result.UserCount, result.TaskCount,
		result.ScheduledCount, result.CancelledCount, result.FailedCount, nil)

	slog.InfoContext(ctx, "sweep completed",
		slog.String("run_id", runID),
		slog.Int("user_count", result.UserCount),
		slog.Int("task_count", result.TaskCount),
		slog.Int("scheduled_count", result.ScheduledCount),
		slog.Int("cancelled_count", result.CancelledCount),
		slog.Int("failed_count", result.FailedCount),
		slog.Duration("duration", time.Since(started)),
	)

	return result, nil
}

// SyncUser reconciles every task of one user: tasks the store no
// longer returns lose their pending notifications, everything else is
// rescheduled when its inputs changed.
func (d *Dispatcher) SyncUser(ctx context.Context, userID string, now time.Time) (*UserSyncResult, error) {
	ctx, span := tracing.StartUserSyncSpan(ctx, userID)
	defer span.End()

	tasks, err := d.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	profile, err := d.tasks.GetProfile(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch profile, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		profile = domain.DefaultProfile()
	}

	prefs, err := d.prefs.GetPreferences(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch preferences, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		prefs = domain.DefaultPreferences()
	}

	dayKey := domain.DayKey(now.In(d.calc.Location()))
	if err := d.states.PruneOverdueCounters(ctx, userID, dayKey); err != nil {
		slog.WarnContext(ctx, "failed to prune overdue counters",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	result := &UserSyncResult{UserID: userID}

	// Clear state for tasks the store no longer returns.
	known := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		known[task.ID] = true
	}
	trackedIDs, err := d.states.ListTrackedTaskIDs(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list tracked tasks",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	for _, taskID := range trackedIDs {
		if known[taskID] {
			continue
		}
		res := d.removeTask(ctx, userID, taskID)
		result.Results = append(result.Results, res)
	}

	for _, task := range tasks {
		res := d.syncTask(ctx, userID, task, profile, prefs, now)
		result.Results = append(result.Results, res)
	}

	return result, nil
}

// ApplyTaskEvent reschedules a single task in response to a change
// event from the task service. Unchanged snapshots are a no-op.
func (d *Dispatcher) ApplyTaskEvent(ctx context.Context, userID string, task *domain.Task, now time.Time) (SyncResult, error) {
	profile, err := d.tasks.GetProfile(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch profile, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		profile = domain.DefaultProfile()
	}

	prefs, err := d.prefs.GetPreferences(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch preferences, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		prefs = domain.DefaultPreferences()
	}

	return d.syncTask(ctx, userID, task, profile, prefs, now), nil
}

// DismissTask suppresses further notifications for a task for the rest
// of the day and cancels whatever is already pending.
func (d *Dispatcher) DismissTask(ctx context.Context, userID, taskID string, now time.Time) error {
	unlock := d.lockTask(userID, taskID)
	defer unlock()

	dayKey := domain.DayKey(now.In(d.calc.Location()))
	if err := d.states.MarkDismissed(ctx, userID, taskID, dayKey); err != nil {
		return fmt.Errorf("failed to mark task dismissed: %w", err)
	}

	state, err := d.states.GetTaskState(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskStateNotFound) {
			return nil
		}
		return err
	}

	cancelled, failed := d.cancelHandles(ctx, state.Handles)
	if d.metrics != nil {
		d.metrics.RecordNotificationsCancelled(ctx, cancelled)
	}

	state.Handles = nil
	state.PendingOverdueAt = nil
	state.Fingerprint = "dismissed:" + dayKey
	state.UpdatedAt = now
	if err := d.states.SaveTaskState(ctx, userID, state); err != nil {
		return fmt.Errorf("failed to save task state: %w", err)
	}

	slog.InfoContext(ctx, "task dismissed for the day",
		slog.String("user_id", userID),
		slog.String("task_id", taskID),
		slog.String("day", dayKey),
		slog.Int("cancelled_count", cancelled),
		slog.Int("failed_count", failed),
	)
	return nil
}

func (d *Dispatcher) syncTask(ctx context.Context, userID string, task *domain.Task, profile domain.UserProfile, prefs domain.Preferences, now time.Time) SyncResult {
	started := time.Now()

	ctx, span := tracing.StartTaskSyncSpan(ctx, userID, task.ID, task.Priority.String())
	defer span.End()

	unlock := d.lockTask(userID, task.ID)
	defer unlock()

	result := SyncResult{TaskID: task.ID, Priority: task.Priority}

	if task.Status.IsCompleted() {
		result = d.removeTask(ctx, userID, task.ID)
		result.Priority = task.Priority
		tracing.RecordTaskSyncResult(span, string(result.Action),
			result.ScheduledCount, result.CancelledCount, result.FailedCount, nil)
		return result
	}

	localNow := now.In(d.calc.Location())
	dayKey := domain.DayKey(localNow)

	dismissed, err := d.states.IsDismissed(ctx, userID, task.ID, dayKey)
	if err != nil {
		slog.WarnContext(ctx, "failed to check dismissal, treating as not dismissed",
			slog.String("user_id", userID),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
	}
	if dismissed {
		result.Action = ActionDismissed
		tracing.RecordTaskSyncResult(span, string(result.Action), 0, 0, 0, nil)
		return result
	}

	state, err := d.states.GetTaskState(ctx, userID, task.ID)
	if err != nil && !errors.Is(err, domain.ErrTaskStateNotFound) {
		slog.WarnContext(ctx, "failed to load task state, rescheduling from scratch",
			slog.String("user_id", userID),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
		state = nil
	}

	// A pending overdue reminder whose time has passed counts against
	// today's cap and frees the slot for the next one.
	if state != nil && state.PendingOverdueAt != nil && !state.PendingOverdueAt.After(now) {
		if _, err := d.states.IncrementOverdueReminderCount(ctx, userID, task.ID, dayKey); err != nil {
			slog.WarnContext(ctx, "failed to increment overdue reminder count",
				slog.String("user_id", userID),
				slog.String("task_id", task.ID),
				slog.String("error", err.Error()),
			)
		}
		state.PendingOverdueAt = nil
		state.Fingerprint = ""
	}

	overdueCount, err := d.states.OverdueReminderCount(ctx, userID, task.ID, dayKey)
	if err != nil {
		slog.WarnContext(ctx, "failed to read overdue reminder count, assuming zero",
			slog.String("user_id", userID),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
		overdueCount = 0
	}

	fingerprint := compositeFingerprint(task, profile, prefs, dayKey, overdueCount)
	if state != nil && state.Fingerprint == fingerprint {
		result.Action = ActionUnchanged
		tracing.RecordTaskSyncResult(span, string(result.Action), 0, 0, 0, nil)
		return result
	}

	if state != nil {
		cancelled, failed := d.cancelHandles(ctx, state.Handles)
		result.CancelledCount = cancelled
		result.FailedCount += failed
		if d.metrics != nil {
			d.metrics.RecordNotificationsCancelled(ctx, cancelled)
		}
	}

	sched, stats := d.calc.CalculateWithStats(task, profile, overdueCount, prefs, now)
	result.SuppressedQuietHours = stats.SuppressedQuietHours
	result.SuppressedLeadTime = stats.SuppressedLeadTime
	if d.metrics != nil {
		d.metrics.RecordSuppressed(ctx, "quiet_hours", stats.SuppressedQuietHours)
		d.metrics.RecordSuppressed(ctx, "lead_time", stats.SuppressedLeadTime)
	}

	handles := make([]string, 0, len(sched.Notifications))
	var pendingOverdueAt *time.Time
	for _, n := range sched.Notifications {
		handle, err := d.sink.Schedule(ctx, delivery.FromScheduled(userID, task.ID, n))
		if err != nil {
			slog.WarnContext(ctx, "failed to schedule notification",
				slog.String("user_id", userID),
				slog.String("task_id", task.ID),
				slog.String("type", n.Type.String()),
				slog.Time("deliver_at", n.Time),
				slog.String("error", err.Error()),
			)
			result.FailedCount++
			if d.metrics != nil {
				d.metrics.RecordSinkFailure(ctx, "schedule")
			}
			continue
		}
		handles = append(handles, handle)
		result.ScheduledCount++
		if d.metrics != nil {
			d.metrics.RecordNotificationScheduled(ctx, n.Type.String(), n.Priority.String())
		}
		if n.Type == domain.TypeOverdue {
			t := n.Time
			pendingOverdueAt = &t
		}
	}

	newState := &domain.TaskState{
		TaskID:           task.ID,
		Fingerprint:      fingerprint,
		Handles:          handles,
		PendingOverdueAt: pendingOverdueAt,
		UpdatedAt:        now,
	}
	if err := d.states.SaveTaskState(ctx, userID, newState); err != nil {
		slog.ErrorContext(ctx, "failed to save task state",
			slog.String("user_id", userID),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
	}

	result.Action = ActionScheduled
	if d.metrics != nil {
		d.metrics.RecordTaskSyncDuration(ctx, task.Priority.String(), time.Since(started))
	}
	tracing.RecordTaskSyncResult(span, string(result.Action),
		result.ScheduledCount, result.CancelledCount, result.FailedCount, nil)

	return result
}

// removeTask cancels everything pending for a task and forgets it.
func (d *Dispatcher) removeTask(ctx context.Context, userID, taskID string) SyncResult {
	result := SyncResult{TaskID: taskID, Action: ActionRemoved}

	state, err := d.states.GetTaskState(ctx, userID, taskID)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskStateNotFound) {
			slog.WarnContext(ctx, "failed to load task state for removal",
				slog.String("user_id", userID),
				slog.String("task_id", taskID),
				slog.String("error", err.Error()),
			)
		}
		return result
	}

	cancelled, failed := d.cancelHandles(ctx, state.Handles)
	result.CancelledCount = cancelled
	result.FailedCount = failed
	if d.metrics != nil {
		d.metrics.RecordNotificationsCancelled(ctx, cancelled)
	}

	if err := d.states.DeleteTaskState(ctx, userID, taskID); err != nil {
		slog.WarnContext(ctx, "failed to delete task state",
			slog.String("user_id", userID),
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
	}

	return result
}

func (d *Dispatcher) cancelHandles(ctx context.Context, handles []string) (cancelled, failed int) {
	for _, handle := range handles {
		if err := d.sink.Cancel(ctx, handle); err != nil {
			slog.WarnContext(ctx, "failed to cancel notification",
				slog.String("handle", handle),
				slog.String("error", err.Error()),
			)
			failed++
			if d.metrics != nil {
				d.metrics.RecordSinkFailure(ctx, "cancel")
			}
			continue
		}
		cancelled++
	}
	return cancelled, failed
}

func (d *Dispatcher) lockTask(userID, taskID string) func() {
	key := userID + ":" + taskID

	d.mu.Lock()
	lock, ok := d.taskLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		d.taskLocks[key] = lock
	}
	d.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// compositeFingerprint covers every input the schedule depends on. The
// day key is included only for overdue tasks, whose branch depends on
// the calendar day, so future-dated tasks are not rescheduled at
// midnight for no reason.
func compositeFingerprint(task *domain.Task, profile domain.UserProfile, prefs domain.Preferences, dayKey string, overdueCount int) string {
	disabled := make([]string, 0, len(prefs.DisabledPriorities))
	for p, on := range prefs.DisabledPriorities {
		if on {
			disabled = append(disabled, p.String())
		}
	}
	sort.Strings(disabled)

	parts := []string{
		task.Fingerprint(),
		fmt.Sprintf("%g|%d|%s|%s|%s",
			prefs.FrequencyMultiplier,
			prefs.MinimumLeadMinutes,
			strings.Join(disabled, ","),
			prefs.QuietHoursStart.String(),
			prefs.QuietHoursEnd.String(),
		),
		fmt.Sprintf("%s|%s|%s",
			profile.WorkHoursStart.String(),
			profile.WorkHoursEnd.String(),
			profile.PeakEnergy,
		),
	}

	if task.DueAt != nil && task.DueAt.Before(startOfDayFor(task, dayKey)) {
		parts = append(parts, dayKey, fmt.Sprintf("%d", overdueCount))
	}

	return strings.Join(parts, "||")
}

// startOfDayFor parses the day key back in the due date's location.
// Fingerprints only need a consistent overdue test, not exactness to
// the minute.
func startOfDayFor(task *domain.Task, dayKey string) time.Time {
	loc := time.Local
	if task.DueAt != nil {
		loc = task.DueAt.Location()
	}
	t, err := time.ParseInLocation("2006-01-02", dayKey, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

package schedule

import (
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// CalculateAll runs the calculator over a task set. Completed tasks are
// skipped and tasks whose schedule came out empty are dropped.
func (c *Calculator) CalculateAll(
	tasks []domain.Task,
	profile domain.UserProfile,
	overdueCounts map[string]int,
	prefs domain.Preferences,
	now time.Time,
) []domain.NotificationSchedule {
	schedules := make([]domain.NotificationSchedule, 0, len(tasks))

	for i := range tasks {
		task := &tasks[i]
		if task.Status.IsCompleted() {
			continue
		}

		sched := c.Calculate(task, profile, overdueCounts[task.ID], prefs, now)
		if sched.IsEmpty() {
			continue
		}
		schedules = append(schedules, *sched)
	}

	return schedules
}

// Summary aggregates a batch of schedules. Pure counting, no business
// rules.
type Summary struct {
	TotalNotifications int                              `json:"total_notifications"`
	ByPriority         map[domain.Priority]int          `json:"by_priority"`
	ByType             map[domain.NotificationType]int  `json:"by_type"`
}

func Summarize(schedules []domain.NotificationSchedule) Summary {
	summary := Summary{
		ByPriority: make(map[domain.Priority]int),
		ByType:     make(map[domain.NotificationType]int),
	}

	for _, sched := range schedules {
		for _, n := range sched.Notifications {
			summary.TotalNotifications++
			summary.ByPriority[n.Priority]++
			summary.ByType[n.Type]++
		}
	}

	return summary
}

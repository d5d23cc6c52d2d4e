package content

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

const maxOverdueRemindersPerDay = 3

// Generate renders the notification copy for a task and notification
// type. The overdue counter is caller-supplied; the generator itself is
// pure given its arguments and "now".
func Generate(task *domain.Task, typ domain.NotificationType, now time.Time, overdueCount int) domain.NotificationContent {
	content := domain.NotificationContent{}

	if task.DueAt != nil {
		content.TimeRemaining = FormatTimeRemaining(task.DueAt.Sub(now))
	}

	switch task.Priority {
	case domain.PriorityHigh:
		fillHighPriority(&content, task, typ, overdueCount)
	case domain.PriorityMedium:
		fillMediumPriority(&content, task, typ)
	default:
		content.Title = task.Title
		content.Body = "Task reminder"
		content.Urgency = domain.UrgencyLow
	}

	return content
}

func fillHighPriority(content *domain.NotificationContent, task *domain.Task, typ domain.NotificationType, overdueCount int) {
	switch typ {
	case domain.TypeOverdue:
		content.Title = "Overdue: " + task.Title
		content.Body = fmt.Sprintf("This high priority task is past due. Reminder %d of %d.",
			overdueCount+1, maxOverdueRemindersPerDay)
		content.Urgency = domain.UrgencyOverdue
		content.Action = "Complete now"
	case domain.TypeAdvanceNotice:
		content.Title = "Coming up: " + task.Title
		content.Body = "High priority task is due soon. Plan time for it."
		content.Urgency = domain.UrgencyUrgent
		content.Action = "Review task"
	case domain.TypeFinalReminder:
		content.Title = "Final reminder: " + task.Title
		content.Body = "Last chance to start before the deadline."
		content.Urgency = domain.UrgencyUrgent
		content.Action = "Start now"
	case domain.TypeDailySummary:
		content.Title = "Needs attention: " + task.Title
		content.Body = "High priority task has no due date. Suggested time to work on it."
		content.Urgency = domain.UrgencyUrgent
		content.Action = "Start now"
	default:
		content.Title = "Due soon: " + task.Title
		content.Body = "High priority task needs your attention."
		content.Urgency = domain.UrgencyUrgent
		content.Action = "Start now"
	}
}

func fillMediumPriority(content *domain.NotificationContent, task *domain.Task, typ domain.NotificationType) {
	switch typ {
	case domain.TypeOverdue:
		content.Title = "Still pending: " + task.Title
		content.Body = "This task is past its due date."
		content.Urgency = domain.UrgencyOverdue
	case domain.TypeFinalReminder:
		content.Title = "Reminder: " + task.Title
		content.Body = "Due shortly. A good moment to wrap this up."
		content.Urgency = domain.UrgencyNormal
	default:
		content.Title = "Don't forget: " + task.Title
		content.Body = "Gentle reminder about this task."
		content.Urgency = domain.UrgencyNormal
	}
}

// FormatTimeRemaining renders a delta to a due time as human-readable
// copy. Negative deltas render as "Due N {unit} ago", positive as
// "Due in N {unit}", picking the largest nonzero unit with
// days > hours > minutes precedence. Exactly zero renders "Due now".
func FormatTimeRemaining(delta time.Duration) string {
	if delta == 0 {
		return "Due now"
	}

	past := delta < 0
	if past {
		delta = -delta
	}

	var amount int
	var unit string
	switch {
	case delta >= 24*time.Hour:
		amount = int(delta / (24 * time.Hour))
		unit = "day"
	case delta >= time.Hour:
		amount = int(delta / time.Hour)
		unit = "hour"
	case delta >= time.Minute:
		amount = int(delta / time.Minute)
		unit = "minute"
	default:
		return "Due now"
	}

	if amount != 1 {
		unit += "s"
	}

	if past {
		return fmt.Sprintf("Due %d %s ago", amount, unit)
	}
	return fmt.Sprintf("Due in %d %s", amount, unit)
}

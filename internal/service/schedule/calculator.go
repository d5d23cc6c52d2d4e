package schedule

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/content"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/window"
)

const (
	// MaxOverdueRemindersPerDay caps repeat overdue nudges for high
	// priority tasks. The counter resets at local midnight.
	MaxOverdueRemindersPerDay = 3

	advanceNoticeBefore = 24 * time.Hour
	standardBefore      = 2 * time.Hour
	extraBefore         = 6 * time.Hour
	overdueBaseInterval = 4 * time.Hour
	mediumFinalBefore   = 15 * time.Minute

	morningHour = 9

	// Frequency multiplier thresholds for densifying or thinning the
	// candidate set.
	addExtraThreshold = 1.5
	reduceThreshold   = 0.5
)

// Hours for date-only reminders on the due date itself.
var dateOnlyReminderHours = []int{9, 14, 18}

// Stats counts candidates the admission gate rejected, for
// observability. Rejection is silent from the schedule's point of view.
type Stats struct {
	SuppressedQuietHours int
	SuppressedLeadTime   int
}

// Calculator is the notification decision engine. It is a pure
// function of its inputs: all state (the overdue reminder count) is
// threaded in by the caller and wall-clock "now" is captured once per
// invocation.
type Calculator struct {
	loc *time.Location
}

func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{loc: loc}
}

func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Calculate produces the ordered notification schedule for one task.
func (c *Calculator) Calculate(
	task *domain.Task,
	profile domain.UserProfile,
	overdueReminderCount int,
	prefs domain.Preferences,
	now time.Time,
) *domain.NotificationSchedule {
	sched, _ := c.CalculateWithStats(task, profile, overdueReminderCount, prefs, now)
	return sched
}

// CalculateWithStats is Calculate plus suppression counters for the
// dispatcher's decision recording.
func (c *Calculator) CalculateWithStats(
	task *domain.Task,
	profile domain.UserProfile,
	overdueReminderCount int,
	prefs domain.Preferences,
	now time.Time,
) (*domain.NotificationSchedule, Stats) {
	now = now.In(c.loc)

	b := &builder{
		task:         task,
		profile:      profile,
		prefs:        prefs,
		now:          now,
		overdueCount: overdueReminderCount,
		schedule:     domain.NewNotificationSchedule(task.ID, task.Title),
	}

	if task.Status.IsCompleted() {
		return b.schedule, b.stats
	}
	if prefs.PriorityDisabled(task.Priority) {
		return b.schedule, b.stats
	}
	// Low priority never gets automatic notifications.
	if task.Priority == domain.PriorityLow {
		return b.schedule, b.stats
	}

	if task.DueAt == nil {
		c.scheduleWithoutDueDate(b)
		b.schedule.SortByTime()
		return b.schedule, b.stats
	}

	due := task.DueAt.In(c.loc)
	dueStart := startOfDay(due)
	todayStart := startOfDay(now)
	b.specificTime = window.HasSpecificTime(due)

	if dueStart.Before(todayStart) {
		c.scheduleOverdue(b, overdueReminderCount)
		b.schedule.SortByTime()
		return b.schedule, b.stats
	}

	c.scheduleUpcoming(b, due, dueStart, todayStart)
	b.schedule.SortByTime()
	return b.schedule, b.stats
}

// scheduleWithoutDueDate handles tasks with no due date. Only high
// priority tasks get anything: a single daily summary the next day at
// the start of the user's peak energy hours.
func (c *Calculator) scheduleWithoutDueDate(b *builder) {
	if b.task.Priority != domain.PriorityHigh {
		return
	}

	peakStart, _ := window.PeakEnergyHours(b.profile.PeakEnergy)
	tomorrow := startOfDay(b.now).AddDate(0, 0, 1)
	suggested := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), peakStart, 0, 0, 0, c.loc)
	suggested = window.AdjustToWorkHours(suggested, b.profile, b.task.IsWork())

	b.add(suggested, "No due date set - suggested time at peak energy hours", domain.TypeDailySummary, false)
}

// scheduleOverdue is the terminal branch for tasks past their due date.
// High priority gets a self-extending cadence capped per day; medium
// gets a single morning nudge.
func (c *Calculator) scheduleOverdue(b *builder, overdueReminderCount int) {
	switch b.task.Priority {
	case domain.PriorityHigh:
		if overdueReminderCount >= MaxOverdueRemindersPerDay {
			return
		}
		interval := time.Duration(float64(overdueBaseInterval) / b.prefs.FrequencyMultiplier)
		b.add(b.now.Add(interval), "Overdue reminder", domain.TypeOverdue, false)
	case domain.PriorityMedium:
		morning := time.Date(b.now.Year(), b.now.Month(), b.now.Day(), morningHour, 0, 0, 0, c.loc)
		if !morning.After(b.now) {
			morning = morning.AddDate(0, 0, 1)
		}
		b.add(morning, "Overdue task - morning reminder", domain.TypeOverdue, false)
	}
}

// scheduleUpcoming handles tasks due today or in the future. Low
// priority was already excluded.
func (c *Calculator) scheduleUpcoming(b *builder, due, dueStart, todayStart time.Time) {
	addExtra := b.prefs.FrequencyMultiplier >= addExtraThreshold
	reduce := b.prefs.FrequencyMultiplier <= reduceThreshold

	if b.task.Priority == domain.PriorityHigh {
		if b.specificTime {
			if !reduce {
				b.add(due.Add(-advanceNoticeBefore), "24 hours before due time", domain.TypeAdvanceNotice, true)
			}
			b.add(due.Add(-standardBefore), "2 hours before due time", domain.TypeReminder, true)

			lead := window.LeadTimeForDuration(b.task.EstimatedMinutes)
			b.add(due.Add(-time.Duration(lead)*time.Minute),
				fmt.Sprintf("%d minutes before due time", lead), domain.TypeFinalReminder, true)

			if addExtra {
				b.add(due.Add(-extraBefore), "6 hours before due time", domain.TypeReminder, true)
			}
			return
		}

		hours := dateOnlyReminderHours
		if reduce {
			hours = dateOnlyReminderHours[:1]
		}
		for _, hour := range hours {
			t := time.Date(dueStart.Year(), dueStart.Month(), dueStart.Day(), hour, 0, 0, 0, c.loc)
			b.add(t, fmt.Sprintf("Due date reminder at %02d:00", hour), domain.TypeReminder, true)
		}
		if !reduce && !dueStart.Equal(todayStart) {
			dayBefore := dueStart.AddDate(0, 0, -1)
			t := time.Date(dayBefore.Year(), dayBefore.Month(), dayBefore.Day(), morningHour, 0, 0, 0, c.loc)
			b.add(t, "Day before due date", domain.TypeAdvanceNotice, true)
		}
		return
	}

	// Medium priority.
	if b.specificTime {
		b.add(due.Add(-standardBefore), "2 hours before due time", domain.TypeReminder, true)
		if addExtra {
			b.add(due.Add(-mediumFinalBefore), "15 minutes before due time", domain.TypeFinalReminder, true)
		}
		return
	}

	morning := time.Date(dueStart.Year(), dueStart.Month(), dueStart.Day(), morningHour, 0, 0, 0, c.loc)
	b.add(morning, "Morning of due date", domain.TypeReminder, true)
}

type builder struct {
	task         *domain.Task
	profile      domain.UserProfile
	prefs        domain.Preferences
	now          time.Time
	overdueCount int
	specificTime bool

	schedule *domain.NotificationSchedule
	stats    Stats
}

// add is the shared admission gate. A candidate must be strictly after
// now, survive the work-hours clamp, fall outside quiet hours and clear
// the minimum lead time. Rejected candidates are dropped silently.
func (b *builder) add(t time.Time, reason string, typ domain.NotificationType, allowWorkAdjust bool) {
	if !t.After(b.now) {
		return
	}

	adjusted := t
	if allowWorkAdjust && b.task.IsWork() && b.specificTime {
		adjusted = window.AdjustToWorkHours(t, b.profile, true)
	}

	if window.IsInQuietHours(adjusted, b.prefs) {
		b.stats.SuppressedQuietHours++
		return
	}

	minLead := time.Duration(b.prefs.MinimumLeadMinutes) * time.Minute
	if !adjusted.After(b.now.Add(minLead)) {
		b.stats.SuppressedLeadTime++
		return
	}

	b.schedule.Add(domain.ScheduledNotification{
		Time:     adjusted,
		Reason:   reason,
		Type:     typ,
		Priority: b.task.Priority,
		Content:  content.Generate(b.task, typ, b.now, b.overdueCount),
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

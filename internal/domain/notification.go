package domain

import (
	"sort"
	"time"
)

// NotificationType tags the role of a scheduled notification.
type NotificationType string

const (
	TypeAdvanceNotice NotificationType = "advance-notice"
	TypeReminder      NotificationType = "reminder"
	TypeFinalReminder NotificationType = "final-reminder"
	TypeOverdue       NotificationType = "overdue"
	TypeDailySummary  NotificationType = "daily-summary"
)

func (t NotificationType) String() string {
	return string(t)
}

// Urgency is the delivery-layer urgency hint carried by content.
type Urgency string

const (
	UrgencyUrgent  Urgency = "urgent"
	UrgencyNormal  Urgency = "normal"
	UrgencyLow     Urgency = "low"
	UrgencyOverdue Urgency = "overdue"
)

func (u Urgency) String() string {
	return string(u)
}

// NotificationContent is the rendered copy for one notification.
type NotificationContent struct {
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	Urgency       Urgency `json:"urgency"`
	TimeRemaining string  `json:"time_remaining,omitempty"`
	Action        string  `json:"action,omitempty"`
}

// ScheduledNotification is one planned notification event for a task.
type ScheduledNotification struct {
	Time     time.Time           `json:"time"`
	Reason   string              `json:"reason"`
	Type     NotificationType    `json:"type"`
	Priority Priority            `json:"priority"`
	Content  NotificationContent `json:"content"`
}

// NotificationSchedule is the full planned notification set for one
// task, ordered ascending by time.
type NotificationSchedule struct {
	TaskID        string                  `json:"task_id"`
	TaskTitle     string                  `json:"task_title"`
	Notifications []ScheduledNotification `json:"notifications"`
}

func NewNotificationSchedule(taskID, taskTitle string) *NotificationSchedule {
	return &NotificationSchedule{
		TaskID:        taskID,
		TaskTitle:     taskTitle,
		Notifications: make([]ScheduledNotification, 0),
	}
}

func (s *NotificationSchedule) Add(n ScheduledNotification) {
	s.Notifications = append(s.Notifications, n)
}

// SortByTime orders the notifications ascending by time. Work-hour and
// quiet-hour adjustments can reorder effective times relative to the
// logical candidate order, so callers sort once before returning.
func (s *NotificationSchedule) SortByTime() {
	sort.SliceStable(s.Notifications, func(i, j int) bool {
		return s.Notifications[i].Time.Before(s.Notifications[j].Time)
	})
}

func (s *NotificationSchedule) IsEmpty() bool {
	return len(s.Notifications) == 0
}

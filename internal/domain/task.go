package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// Priority represents the urgency tier of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) String() string {
	return string(p)
}

// WorkCategory is the task category with work-hours semantics.
const WorkCategory = "work"

// Task is a read-only snapshot of a task record owned by the task
// management service. The scheduling engine never mutates it.
type Task struct {
	ID               string
	Title            string
	DueAt            *time.Time
	Status           Status
	Priority         Priority
	EstimatedMinutes *int
	Category         string
}

func (t *Task) IsWork() bool {
	return strings.EqualFold(t.Category, WorkCategory)
}

// Fingerprint covers the fields that affect the computed schedule.
// Two snapshots with equal fingerprints produce identical schedules
// for the same "now".
func (t *Task) Fingerprint() string {
	due := "none"
	if t.DueAt != nil {
		due = t.DueAt.UTC().Format(time.RFC3339)
	}
	est := "none"
	if t.EstimatedMinutes != nil {
		est = fmt.Sprintf("%d", *t.EstimatedMinutes)
	}
	return strings.Join([]string{
		due,
		t.Priority.String(),
		t.Status.String(),
		est,
		t.Category,
		t.Title,
	}, "|")
}

// DayKey formats a time as the calendar-day key used for per-day
// dispatcher state (overdue counters, dismissals).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

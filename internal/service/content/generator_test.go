package content

import (
	"strings"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

func TestFormatTimeRemaining(t *testing.T) {
	tests := []struct {
		name  string
		delta time.Duration
		want  string
	}{
		{"exactly zero", 0, "Due now"},
		{"sub-minute", 30 * time.Second, "Due now"},
		{"minutes ahead", 45 * time.Minute, "Due in 45 minutes"},
		{"single minute", time.Minute, "Due in 1 minute"},
		{"hours ahead", 3 * time.Hour, "Due in 3 hours"},
		{"single hour", 90 * time.Minute, "Due in 1 hour"},
		{"days ahead", 49 * time.Hour, "Due in 2 days"},
		{"single day", 24 * time.Hour, "Due in 1 day"},
		{"minutes ago", -10 * time.Minute, "Due 10 minutes ago"},
		{"hours ago", -5 * time.Hour, "Due 5 hours ago"},
		{"days ago", -3 * 24 * time.Hour, "Due 3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeRemaining(tt.delta); got != tt.want {
				t.Errorf("FormatTimeRemaining(%v) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}

func TestGenerate_HighPriorityOverdueCounter(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(-48 * time.Hour)
	task := &domain.Task{
		ID:       "task-1",
		Title:    "Submit report",
		Priority: domain.PriorityHigh,
		DueAt:    &due,
	}

	got := Generate(task, domain.TypeOverdue, now, 1)

	if got.Urgency != domain.UrgencyOverdue {
		t.Errorf("urgency = %q, want %q", got.Urgency, domain.UrgencyOverdue)
	}
	if !strings.Contains(got.Body, "Reminder 2 of 3") {
		t.Errorf("body = %q, want overdue counter 'Reminder 2 of 3'", got.Body)
	}
	if got.Action == "" {
		t.Error("high priority overdue content should carry an action verb")
	}
	if got.TimeRemaining != "Due 2 days ago" {
		t.Errorf("time remaining = %q, want %q", got.TimeRemaining, "Due 2 days ago")
	}
}

func TestGenerate_PriorityTones(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(2 * time.Hour)

	high := Generate(&domain.Task{Title: "A", Priority: domain.PriorityHigh, DueAt: &due}, domain.TypeReminder, now, 0)
	if high.Urgency != domain.UrgencyUrgent {
		t.Errorf("high priority urgency = %q, want urgent", high.Urgency)
	}
	if high.Action == "" {
		t.Error("high priority reminder should carry an action verb")
	}

	medium := Generate(&domain.Task{Title: "B", Priority: domain.PriorityMedium, DueAt: &due}, domain.TypeReminder, now, 0)
	if medium.Urgency != domain.UrgencyNormal {
		t.Errorf("medium priority urgency = %q, want normal", medium.Urgency)
	}

	low := Generate(&domain.Task{Title: "C", Priority: domain.PriorityLow, DueAt: &due}, domain.TypeReminder, now, 0)
	if low.Urgency != domain.UrgencyLow {
		t.Errorf("low priority urgency = %q, want low", low.Urgency)
	}
}

func TestGenerate_NoDueDateOmitsTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	task := &domain.Task{Title: "No due", Priority: domain.PriorityHigh}

	got := Generate(task, domain.TypeDailySummary, now, 0)
	if got.TimeRemaining != "" {
		t.Errorf("time remaining = %q, want empty for task without due date", got.TimeRemaining)
	}
}

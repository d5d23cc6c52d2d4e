package schedule

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

func TestCalculateAll_FiltersCompletedAndEmpty(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	tasks := []domain.Task{
		{ID: "high", Title: "a", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due},
		{ID: "done", Title: "b", Priority: domain.PriorityHigh, Status: domain.StatusCompleted, DueAt: &due},
		{ID: "low", Title: "c", Priority: domain.PriorityLow, Status: domain.StatusNotStarted, DueAt: &due},
		{ID: "medium-no-due", Title: "d", Priority: domain.PriorityMedium, Status: domain.StatusNotStarted},
	}

	got := calc.CalculateAll(tasks, testProfile(t), nil, domain.DefaultPreferences(), now)

	if len(got) != 1 {
		t.Fatalf("CalculateAll() returned %d schedules, want 1", len(got))
	}
	if got[0].TaskID != "high" {
		t.Errorf("surviving schedule task = %q, want %q", got[0].TaskID, "high")
	}
}

func TestCalculateAll_ThreadsOverdueCounts(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(-48 * time.Hour)

	tasks := []domain.Task{
		{ID: "capped", Title: "a", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due},
		{ID: "fresh", Title: "b", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due},
	}
	counts := map[string]int{"capped": 3}

	got := calc.CalculateAll(tasks, testProfile(t), counts, domain.DefaultPreferences(), now)

	if len(got) != 1 {
		t.Fatalf("CalculateAll() returned %d schedules, want 1", len(got))
	}
	if got[0].TaskID != "fresh" {
		t.Errorf("surviving schedule task = %q, want %q", got[0].TaskID, "fresh")
	}
}

func TestSummarize(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	dueHigh := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	dueMedium := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tasks := []domain.Task{
		{ID: "h", Title: "a", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &dueHigh},
		{ID: "m", Title: "b", Priority: domain.PriorityMedium, Status: domain.StatusNotStarted, DueAt: &dueMedium},
	}

	schedules := calc.CalculateAll(tasks, testProfile(t), nil, domain.DefaultPreferences(), now)
	summary := Summarize(schedules)

	wantTotal := 0
	for _, sched := range schedules {
		wantTotal += len(sched.Notifications)
	}

	if summary.TotalNotifications != wantTotal {
		t.Errorf("total = %d, want %d", summary.TotalNotifications, wantTotal)
	}
	if summary.ByPriority[domain.PriorityMedium] != 1 {
		t.Errorf("medium count = %d, want 1", summary.ByPriority[domain.PriorityMedium])
	}
	if summary.ByPriority[domain.PriorityHigh] != wantTotal-1 {
		t.Errorf("high count = %d, want %d", summary.ByPriority[domain.PriorityHigh], wantTotal-1)
	}
	if summary.ByType[domain.TypeFinalReminder] != 1 {
		t.Errorf("final-reminder count = %d, want 1", summary.ByType[domain.TypeFinalReminder])
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalNotifications != 0 {
		t.Errorf("total = %d, want 0", summary.TotalNotifications)
	}
}

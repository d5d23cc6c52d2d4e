package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func clockOf(t *testing.T, s string) domain.ClockTime {
	t.Helper()
	c, err := domain.ParseClockTime(s)
	if err != nil {
		t.Fatalf("ParseClockTime(%q) error: %v", s, err)
	}
	return c
}

func testProfile(t *testing.T) domain.UserProfile {
	t.Helper()
	return domain.UserProfile{
		WorkHoursStart: clockOf(t, "09:00"),
		WorkHoursEnd:   clockOf(t, "18:00"),
	}
}

func TestCalculate_LowPriorityAlwaysEmpty(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	dueDates := []*time.Time{
		nil,
		timePtr(now.Add(48 * time.Hour)),
		timePtr(now.Add(-48 * time.Hour)),
	}

	for _, due := range dueDates {
		task := &domain.Task{ID: "t1", Title: "low", Priority: domain.PriorityLow, Status: domain.StatusNotStarted, DueAt: due}
		got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)
		if !got.IsEmpty() {
			t.Errorf("Calculate(low priority, due=%v) returned %d notifications, want 0", due, len(got.Notifications))
		}
	}
}

func TestCalculate_CompletedAlwaysEmpty(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(24 * time.Hour)

	task := &domain.Task{
		ID:       "t1",
		Title:    "done",
		Priority: domain.PriorityHigh,
		Status:   domain.StatusCompleted,
		DueAt:    &due,
	}

	got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)
	if !got.IsEmpty() {
		t.Errorf("Calculate(completed) returned %d notifications, want 0", len(got.Notifications))
	}
}

func TestCalculate_DisabledPriorityEmpty(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(24 * time.Hour)

	prefs := domain.DefaultPreferences()
	prefs.DisabledPriorities[domain.PriorityHigh] = true

	task := &domain.Task{ID: "t1", Title: "x", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 0, prefs, now)
	if !got.IsEmpty() {
		t.Errorf("Calculate(disabled priority) returned %d notifications, want 0", len(got.Notifications))
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

	task := &domain.Task{
		ID:               "t1",
		Title:            "repeatable",
		Priority:         domain.PriorityHigh,
		Status:           domain.StatusNotStarted,
		DueAt:            &due,
		EstimatedMinutes: intPtr(90),
	}

	first := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)
	second := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)

	if !reflect.DeepEqual(first, second) {
		t.Error("Calculate() is not idempotent for identical inputs and now")
	}
}

func TestCalculate_OrderedAscending(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	prefs := domain.DefaultPreferences()
	prefs.FrequencyMultiplier = 2.0 // densify: 24h, 6h, 2h and final reminders

	task := &domain.Task{ID: "t1", Title: "ordered", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 0, prefs, now)

	if len(got.Notifications) < 3 {
		t.Fatalf("expected several notifications, got %d", len(got.Notifications))
	}
	for i := 1; i < len(got.Notifications); i++ {
		if got.Notifications[i].Time.Before(got.Notifications[i-1].Time) {
			t.Errorf("notifications out of order at %d: %v before %v",
				i, got.Notifications[i].Time, got.Notifications[i-1].Time)
		}
	}
}

func TestCalculate_OverdueHighPriorityCadence(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(-48 * time.Hour)

	task := &domain.Task{ID: "t1", Title: "late", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}

	for count := 0; count < 3; count++ {
		got := calc.Calculate(task, testProfile(t), count, domain.DefaultPreferences(), now)
		if len(got.Notifications) != 1 {
			t.Fatalf("count=%d: got %d notifications, want 1", count, len(got.Notifications))
		}
		n := got.Notifications[0]
		if n.Type != domain.TypeOverdue {
			t.Errorf("count=%d: type = %q, want overdue", count, n.Type)
		}
		if want := now.Add(4 * time.Hour); !n.Time.Equal(want) {
			t.Errorf("count=%d: time = %v, want %v", count, n.Time, want)
		}
	}

	got := calc.Calculate(task, testProfile(t), 3, domain.DefaultPreferences(), now)
	if !got.IsEmpty() {
		t.Errorf("count=3: got %d notifications, want 0 (daily cap)", len(got.Notifications))
	}
}

func TestCalculate_OverdueIntervalScalesWithFrequency(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := now.Add(-24 * time.Hour)

	prefs := domain.DefaultPreferences()
	prefs.FrequencyMultiplier = 2.0

	task := &domain.Task{ID: "t1", Title: "late", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 1, prefs, now)

	if len(got.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got.Notifications))
	}
	if want := now.Add(2 * time.Hour); !got.Notifications[0].Time.Equal(want) {
		t.Errorf("time = %v, want %v (4h / 2.0 multiplier)", got.Notifications[0].Time, want)
	}
}

func TestCalculate_OverdueMediumMorningRollover(t *testing.T) {
	calc := NewCalculator(time.UTC)
	due := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{ID: "t1", Title: "late", Priority: domain.PriorityMedium, Status: domain.StatusNotStarted, DueAt: &due}

	// Before 9 AM: reminder lands today.
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)
	if len(got.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got.Notifications))
	}
	if want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC); !got.Notifications[0].Time.Equal(want) {
		t.Errorf("time = %v, want %v", got.Notifications[0].Time, want)
	}

	// After 9 AM: rolls to tomorrow.
	now = time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	got = calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)
	if len(got.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got.Notifications))
	}
	if want := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC); !got.Notifications[0].Time.Equal(want) {
		t.Errorf("time = %v, want %v", got.Notifications[0].Time, want)
	}
}

func TestCalculate_QuietHoursSuppression(t *testing.T) {
	calc := NewCalculator(time.UTC)
	prefs := domain.DefaultPreferences()
	prefs.QuietHoursStart = clockOf(t, "22:00")
	prefs.QuietHoursEnd = clockOf(t, "07:00")

	// Due tomorrow 01:30: the 2h-before candidate at 23:30 and the
	// final reminder at 01:15 both land in quiet hours.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 1, 30, 0, 0, time.UTC)
	task := &domain.Task{ID: "t1", Title: "night", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}

	got, stats := calc.CalculateWithStats(task, testProfile(t), 0, prefs, now)
	if !got.IsEmpty() {
		t.Errorf("got %d notifications, want all suppressed by quiet hours", len(got.Notifications))
	}
	if stats.SuppressedQuietHours == 0 {
		t.Error("expected quiet-hours suppressions to be counted")
	}

	// Due tomorrow 10:00: the 2h-before candidate at 08:00 is outside
	// the 22:00-07:00 window and survives.
	due = time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	got = calc.Calculate(task, testProfile(t), 0, prefs, now)

	found := false
	for _, n := range got.Notifications {
		if n.Time.Equal(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)) {
			found = true
		}
		if n.Time.Hour() >= 22 || n.Time.Hour() < 7 {
			t.Errorf("notification at %v falls inside quiet hours", n.Time)
		}
	}
	if !found {
		t.Error("expected the 08:00 reminder to survive quiet hours")
	}
}

func TestCalculate_WorkTaskDueTodayScenario(t *testing.T) {
	// High-priority work task due today 15:00, estimated 90 minutes,
	// work hours 09:00-18:00, now 10:00: expect 13:00 and 14:40 only.
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	task := &domain.Task{
		ID:               "t1",
		Title:            "presentation",
		Priority:         domain.PriorityHigh,
		Status:           domain.StatusInProgress,
		DueAt:            &due,
		EstimatedMinutes: intPtr(90),
		Category:         "work",
	}

	got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)

	if len(got.Notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got.Notifications))
	}

	first := got.Notifications[0]
	if want := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC); !first.Time.Equal(want) {
		t.Errorf("first notification at %v, want %v", first.Time, want)
	}
	if first.Type != domain.TypeReminder {
		t.Errorf("first type = %q, want reminder", first.Type)
	}

	second := got.Notifications[1]
	if want := time.Date(2026, 3, 10, 14, 40, 0, 0, time.UTC); !second.Time.Equal(want) {
		t.Errorf("second notification at %v, want %v (20 min lead for 90 min task)", second.Time, want)
	}
	if second.Type != domain.TypeFinalReminder {
		t.Errorf("second type = %q, want final-reminder", second.Type)
	}
}

func TestCalculate_MediumDateOnlyTomorrow(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC) // date-only

	task := &domain.Task{ID: "t1", Title: "groceries", Priority: domain.PriorityMedium, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)

	if len(got.Notifications) != 1 {
		t.Fatalf("got %d notifications, want exactly 1", len(got.Notifications))
	}
	if want := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC); !got.Notifications[0].Time.Equal(want) {
		t.Errorf("time = %v, want %v", got.Notifications[0].Time, want)
	}
}

func TestCalculate_ReducedFrequencyDropsOuterReminders(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

	prefs := domain.DefaultPreferences()
	prefs.FrequencyMultiplier = 0.5

	task := &domain.Task{
		ID:               "t1",
		Title:            "sparse",
		Priority:         domain.PriorityHigh,
		Status:           domain.StatusNotStarted,
		DueAt:            &due,
		EstimatedMinutes: intPtr(120),
	}

	got := calc.Calculate(task, testProfile(t), 0, prefs, now)

	if len(got.Notifications) != 2 {
		t.Fatalf("got %d notifications, want 2 (2h-before and final only)", len(got.Notifications))
	}
	if want := due.Add(-2 * time.Hour); !got.Notifications[0].Time.Equal(want) {
		t.Errorf("first = %v, want %v", got.Notifications[0].Time, want)
	}
	if want := due.Add(-30 * time.Minute); !got.Notifications[1].Time.Equal(want) {
		t.Errorf("second = %v, want %v (30 min lead for 120 min task)", got.Notifications[1].Time, want)
	}
}

func TestCalculate_IncreasedFrequencyAddsExtra(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	prefs := domain.DefaultPreferences()
	prefs.FrequencyMultiplier = 1.5

	task := &domain.Task{ID: "t1", Title: "dense", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 0, prefs, now)

	foundExtra := false
	for _, n := range got.Notifications {
		if n.Time.Equal(due.Add(-6 * time.Hour)) {
			foundExtra = true
		}
	}
	if !foundExtra {
		t.Error("expected a 6h-before reminder with frequency multiplier 1.5")
	}
}

func TestCalculate_HighDateOnlyFixedTimes(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC) // date-only

	task := &domain.Task{ID: "t1", Title: "fixed", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got := calc.Calculate(task, testProfile(t), 0, domain.DefaultPreferences(), now)

	want := []time.Time{
		time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), // day-before advance notice
		time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC),
	}

	if len(got.Notifications) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(got.Notifications), len(want))
	}
	for i, w := range want {
		if !got.Notifications[i].Time.Equal(w) {
			t.Errorf("notification %d at %v, want %v", i, got.Notifications[i].Time, w)
		}
	}
	if got.Notifications[0].Type != domain.TypeAdvanceNotice {
		t.Errorf("first type = %q, want advance-notice", got.Notifications[0].Type)
	}
}

func TestCalculate_NoDueDate(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	// High priority: single daily summary next day at peak energy start.
	profile := testProfile(t)
	profile.PeakEnergy = domain.PeakEnergyAfternoon

	high := &domain.Task{ID: "t1", Title: "someday", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted}
	got := calc.Calculate(high, profile, 0, domain.DefaultPreferences(), now)

	if len(got.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got.Notifications))
	}
	n := got.Notifications[0]
	if n.Type != domain.TypeDailySummary {
		t.Errorf("type = %q, want daily-summary", n.Type)
	}
	if want := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC); !n.Time.Equal(want) {
		t.Errorf("time = %v, want %v (afternoon peak start)", n.Time, want)
	}

	// Medium priority without a due date gets nothing.
	medium := &domain.Task{ID: "t2", Title: "eventually", Priority: domain.PriorityMedium, Status: domain.StatusNotStarted}
	got = calc.Calculate(medium, profile, 0, domain.DefaultPreferences(), now)
	if !got.IsEmpty() {
		t.Errorf("medium without due date: got %d notifications, want 0", len(got.Notifications))
	}
}

func TestCalculate_MinimumLeadTimeSuppression(t *testing.T) {
	calc := NewCalculator(time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	prefs := domain.DefaultPreferences()
	prefs.MinimumLeadMinutes = 90

	task := &domain.Task{ID: "t1", Title: "rushed", Priority: domain.PriorityHigh, Status: domain.StatusNotStarted, DueAt: &due}
	got, stats := calc.CalculateWithStats(task, testProfile(t), 0, prefs, now)

	if !got.IsEmpty() {
		t.Errorf("got %d notifications, want all suppressed by minimum lead time", len(got.Notifications))
	}
	if stats.SuppressedLeadTime == 0 {
		t.Error("expected lead-time suppressions to be counted")
	}

	// Every surviving notification must clear now + minimum lead.
	due = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	got = calc.Calculate(task, testProfile(t), 0, prefs, now)
	floor := now.Add(90 * time.Minute)
	for _, n := range got.Notifications {
		if !n.Time.After(floor) {
			t.Errorf("notification at %v does not clear now + minimum lead %v", n.Time, floor)
		}
	}
}

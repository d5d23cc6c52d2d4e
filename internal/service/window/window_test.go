package window

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

func clock(t *testing.T, s string) domain.ClockTime {
	t.Helper()
	c, err := domain.ParseClockTime(s)
	if err != nil {
		t.Fatalf("ParseClockTime(%q) error: %v", s, err)
	}
	return c
}

func TestHasSpecificTime(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{"midnight is date-only", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), false},
		{"morning time", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), true},
		{"minute only", time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC), true},
		{"just after midnight", time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasSpecificTime(tt.due); got != tt.want {
				t.Errorf("HasSpecificTime(%v) = %v, want %v", tt.due, got, tt.want)
			}
		})
	}
}

func TestPeakEnergyHours(t *testing.T) {
	tests := []struct {
		pref      domain.PeakEnergyTime
		wantStart int
		wantEnd   int
	}{
		{domain.PeakEnergyMorning, 8, 12},
		{domain.PeakEnergyAfternoon, 12, 17},
		{domain.PeakEnergyEvening, 17, 21},
		{"", 9, 12},
	}

	for _, tt := range tests {
		start, end := PeakEnergyHours(tt.pref)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("PeakEnergyHours(%q) = [%d, %d), want [%d, %d)", tt.pref, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestLeadTimeForDuration(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name     string
		duration *int
		want     int
	}{
		{"nil defaults to 15", nil, 15},
		{"two hours", intPtr(120), 30},
		{"three hours", intPtr(180), 30},
		{"ninety minutes", intPtr(90), 20},
		{"one hour", intPtr(60), 20},
		{"half hour", intPtr(30), 10},
		{"ten minutes", intPtr(10), 10},
		{"forty-five minutes", intPtr(45), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeadTimeForDuration(tt.duration); got != tt.want {
				t.Errorf("LeadTimeForDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsInQuietHours_WrapsMidnight(t *testing.T) {
	prefs := domain.DefaultPreferences()
	prefs.QuietHoursStart = clock(t, "22:00")
	prefs.QuietHoursEnd = clock(t, "07:00")

	lateNight := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	if !IsInQuietHours(lateNight, prefs) {
		t.Error("IsInQuietHours(23:30) = false, want true for 22:00-07:00 window")
	}

	earlyMorning := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	if !IsInQuietHours(earlyMorning, prefs) {
		t.Error("IsInQuietHours(03:00) = false, want true for 22:00-07:00 window")
	}

	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if IsInQuietHours(morning, prefs) {
		t.Error("IsInQuietHours(08:00) = true, want false for 22:00-07:00 window")
	}
}

func TestIsInQuietHours_SameDayWindow(t *testing.T) {
	prefs := domain.DefaultPreferences()
	prefs.QuietHoursStart = clock(t, "12:00")
	prefs.QuietHoursEnd = clock(t, "14:00")

	if !IsInQuietHours(time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), prefs) {
		t.Error("IsInQuietHours(13:00) = false, want true for 12:00-14:00 window")
	}
	if IsInQuietHours(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), prefs) {
		t.Error("IsInQuietHours(15:00) = true, want false for 12:00-14:00 window")
	}
}

func TestIsInQuietHours_Disabled(t *testing.T) {
	prefs := domain.DefaultPreferences()

	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if IsInQuietHours(midnight, prefs) {
		t.Error("IsInQuietHours() = true with quiet hours disabled, want false")
	}
}

func TestAdjustToWorkHours(t *testing.T) {
	profile := domain.UserProfile{
		WorkHoursStart: clock(t, "09:00"),
		WorkHoursEnd:   clock(t, "18:00"),
	}

	early := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	got := AdjustToWorkHours(early, profile, true)
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AdjustToWorkHours(07:30) = %v, want %v", got, want)
	}

	late := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	got = AdjustToWorkHours(late, profile, true)
	want = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AdjustToWorkHours(21:00) = %v, want %v", got, want)
	}

	inside := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if got := AdjustToWorkHours(inside, profile, true); !got.Equal(inside) {
		t.Errorf("AdjustToWorkHours(13:00) = %v, want unchanged", got)
	}

	// Non-work tasks pass through even outside the window.
	if got := AdjustToWorkHours(early, profile, false); !got.Equal(early) {
		t.Errorf("AdjustToWorkHours(non-work) = %v, want unchanged", got)
	}
}

func TestIsWithinWorkHours(t *testing.T) {
	profile := domain.UserProfile{
		WorkHoursStart: clock(t, "09:00"),
		WorkHoursEnd:   clock(t, "18:00"),
	}

	if !IsWithinWorkHours(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), profile) {
		t.Error("IsWithinWorkHours(09:00) = false, want true (inclusive start)")
	}
	if !IsWithinWorkHours(time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), profile) {
		t.Error("IsWithinWorkHours(18:00) = false, want true (inclusive end)")
	}
	if IsWithinWorkHours(time.Date(2026, 3, 10, 18, 1, 0, 0, time.UTC), profile) {
		t.Error("IsWithinWorkHours(18:01) = true, want false")
	}
}

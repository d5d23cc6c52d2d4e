package window

import (
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// Lead time steps by estimated duration, in minutes. A longer task
// needs more prep time, but with diminishing granularity.
const (
	leadLongTask    = 30
	leadMediumTask  = 20
	leadShortTask   = 10
	leadDefaultTask = 15
)

// HasSpecificTime reports whether a due timestamp carries an intended
// time of day. Exactly midnight is treated as date-only.
func HasSpecificTime(due time.Time) bool {
	return due.Hour() != 0 || due.Minute() != 0
}

// PeakEnergyHours returns the [start, end) hour window for a peak
// energy preference.
func PeakEnergyHours(pref domain.PeakEnergyTime) (startHour, endHour int) {
	switch pref {
	case domain.PeakEnergyMorning:
		return 8, 12
	case domain.PeakEnergyAfternoon:
		return 12, 17
	case domain.PeakEnergyEvening:
		return 17, 21
	default:
		return 9, 12
	}
}

// LeadTimeForDuration maps an estimated task duration to final-reminder
// lead time in minutes. Monotonic step function, not linear.
func LeadTimeForDuration(estimatedMinutes *int) int {
	if estimatedMinutes == nil {
		return leadDefaultTask
	}

	switch minutes := *estimatedMinutes; {
	case minutes >= 120:
		return leadLongTask
	case minutes >= 60:
		return leadMediumTask
	case minutes <= 30:
		return leadShortTask
	default:
		return leadDefaultTask
	}
}

func minuteOfDay(t time.Time) domain.ClockTime {
	return domain.ClockTime(t.Hour()*60 + t.Minute())
}

// IsWithinWorkHours reports whether t falls inside the profile's work
// window, compared by minute of day.
func IsWithinWorkHours(t time.Time, profile domain.UserProfile) bool {
	m := minuteOfDay(t)
	return m >= profile.WorkHoursStart && m <= profile.WorkHoursEnd
}

// IsInQuietHours reports whether t falls inside the quiet-hours
// blackout window. When start > end the window wraps midnight, so the
// naive start<=t<=end comparison is wrong and the test becomes
// t>=start OR t<=end.
func IsInQuietHours(t time.Time, prefs domain.Preferences) bool {
	if !prefs.QuietHoursEnabled() {
		return false
	}

	m := minuteOfDay(t)
	start := prefs.QuietHoursStart
	end := prefs.QuietHoursEnd

	if start > end {
		return m >= start || m <= end
	}
	return m >= start && m <= end
}

// AdjustToWorkHours clamps a candidate time into the profile's work
// window. Only work-category tasks are adjusted; everything else passes
// through unchanged.
func AdjustToWorkHours(t time.Time, profile domain.UserProfile, isWorkTask bool) time.Time {
	if !isWorkTask {
		return t
	}

	m := minuteOfDay(t)
	if m < profile.WorkHoursStart {
		return atClockTime(t, profile.WorkHoursStart)
	}
	if m > profile.WorkHoursEnd {
		return atClockTime(t, profile.WorkHoursEnd)
	}
	return t
}

func atClockTime(t time.Time, c domain.ClockTime) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour(), c.Minute(), 0, 0, t.Location())
}

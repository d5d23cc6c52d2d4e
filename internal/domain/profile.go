package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a time of day expressed as minutes since midnight.
type ClockTime int

// ParseClockTime parses "HH:MM" (24-hour) into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	return ClockTime(hour*60 + minute), nil
}

func (c ClockTime) Hour() int {
	return int(c) / 60
}

func (c ClockTime) Minute() int {
	return int(c) % 60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// PeakEnergyTime is the user's preferred part of day for focused work.
type PeakEnergyTime string

const (
	PeakEnergyMorning   PeakEnergyTime = "morning"
	PeakEnergyAfternoon PeakEnergyTime = "afternoon"
	PeakEnergyEvening   PeakEnergyTime = "evening"
)

// UserProfile holds the work-hour window and energy preference read
// from the profile service.
type UserProfile struct {
	WorkHoursStart ClockTime
	WorkHoursEnd   ClockTime
	PeakEnergy     PeakEnergyTime
}

// DefaultProfile is used when the profile service has no record for a
// user or returns an unparseable one.
func DefaultProfile() UserProfile {
	return UserProfile{
		WorkHoursStart: ClockTime(9 * 60),
		WorkHoursEnd:   ClockTime(17 * 60),
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

const (
	sweepIntervalMinutesEnv = "SWEEP_INTERVAL_MINUTES"
	schedulerTimezoneEnv    = "SCHEDULER_TIMEZONE"

	defaultSweepIntervalMinutes = 60
)

type SchedulerConfig struct {
	SweepInterval time.Duration
	Location      *time.Location
}

func LoadSchedulerConfig() (*SchedulerConfig, error) {
	interval := defaultSweepIntervalMinutes
	if v := os.Getenv(sweepIntervalMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	loc := time.Local
	if tz := os.Getenv(schedulerTimezoneEnv); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return nil, ErrInvalidTimezone
		}
		loc = parsed
	}

	return &SchedulerConfig{
		SweepInterval: time.Duration(interval) * time.Minute,
		Location:      loc,
	}, nil
}

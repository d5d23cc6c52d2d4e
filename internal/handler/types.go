package handler

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type taskRequest struct {
	ID               string     `json:"id" binding:"required"`
	Title            string     `json:"title"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	Status           string     `json:"status" binding:"required"`
	Priority         string     `json:"priority" binding:"required"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Category         string     `json:"category"`
}

func (r taskRequest) toDomain() (*domain.Task, error) {
	status := domain.Status(r.Status)
	switch status {
	case domain.StatusNotStarted, domain.StatusInProgress, domain.StatusCompleted:
	default:
		return nil, fmt.Errorf("unknown status: %q", r.Status)
	}

	priority := domain.Priority(r.Priority)
	switch priority {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
	default:
		return nil, fmt.Errorf("unknown priority: %q", r.Priority)
	}

	return &domain.Task{
		ID:               r.ID,
		Title:            r.Title,
		DueAt:            r.DueAt,
		Status:           status,
		Priority:         priority,
		EstimatedMinutes: r.EstimatedMinutes,
		Category:         r.Category,
	}, nil
}

type profileRequest struct {
	WorkHoursStart string `json:"work_hours_start"`
	WorkHoursEnd   string `json:"work_hours_end"`
	PeakEnergy     string `json:"peak_energy"`
}

func (r profileRequest) toDomain() domain.UserProfile {
	profile := domain.DefaultProfile()

	if start, err := domain.ParseClockTime(r.WorkHoursStart); err == nil {
		profile.WorkHoursStart = start
	}
	if end, err := domain.ParseClockTime(r.WorkHoursEnd); err == nil {
		profile.WorkHoursEnd = end
	}
	if r.PeakEnergy != "" {
		profile.PeakEnergy = domain.PeakEnergyTime(r.PeakEnergy)
	}

	return profile
}

type preferencesPayload struct {
	FrequencyMultiplier *float64 `json:"frequency_multiplier,omitempty"`
	MinimumLeadMinutes  *int     `json:"minimum_lead_minutes,omitempty"`
	DisabledPriorities  []string `json:"disabled_priorities,omitempty"`
	QuietHoursStart     string   `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd       string   `json:"quiet_hours_end,omitempty"`
}

func (r preferencesPayload) toDomain() (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	if r.FrequencyMultiplier != nil {
		prefs.FrequencyMultiplier = *r.FrequencyMultiplier
	}
	if r.MinimumLeadMinutes != nil {
		if *r.MinimumLeadMinutes < 0 {
			return prefs, fmt.Errorf("minimum_lead_minutes must not be negative")
		}
		prefs.MinimumLeadMinutes = *r.MinimumLeadMinutes
	}
	for _, p := range r.DisabledPriorities {
		priority := domain.Priority(p)
		switch priority {
		case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
			prefs.DisabledPriorities[priority] = true
		default:
			return prefs, fmt.Errorf("unknown priority: %q", p)
		}
	}
	if r.QuietHoursStart != "" || r.QuietHoursEnd != "" {
		start, err := domain.ParseClockTime(r.QuietHoursStart)
		if err != nil {
			return prefs, fmt.Errorf("invalid quiet_hours_start: %w", err)
		}
		end, err := domain.ParseClockTime(r.QuietHoursEnd)
		if err != nil {
			return prefs, fmt.Errorf("invalid quiet_hours_end: %w", err)
		}
		prefs.QuietHoursStart = start
		prefs.QuietHoursEnd = end
	}

	return prefs, nil
}

func preferencesToPayload(prefs domain.Preferences) preferencesPayload {
	disabled := make([]string, 0, len(prefs.DisabledPriorities))
	for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
		if prefs.DisabledPriorities[p] {
			disabled = append(disabled, p.String())
		}
	}

	multiplier := prefs.FrequencyMultiplier
	lead := prefs.MinimumLeadMinutes
	return preferencesPayload{
		FrequencyMultiplier: &multiplier,
		MinimumLeadMinutes:  &lead,
		DisabledPriorities:  disabled,
		QuietHoursStart:     prefs.QuietHoursStart.String(),
		QuietHoursEnd:       prefs.QuietHoursEnd.String(),
	}
}

package taskstore

import (
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type taskResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Category         string     `json:"category"`
}

type tasksResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Count int            `json:"count"`
}

type profileResponse struct {
	WorkHoursStart string `json:"work_hours_start"`
	WorkHoursEnd   string `json:"work_hours_end"`
	PeakEnergy     string `json:"peak_energy"`
}

type userIDsResponse struct {
	UserIDs []string `json:"user_ids"`
	Count   int      `json:"count"`
}

func (t taskResponse) toDomain() *domain.Task {
	return &domain.Task{
		ID:               t.ID,
		Title:            t.Title,
		DueAt:            t.DueAt,
		Status:           domain.Status(t.Status),
		Priority:         domain.Priority(t.Priority),
		EstimatedMinutes: t.EstimatedMinutes,
		Category:         t.Category,
	}
}

// toDomainProfile falls back to defaults field by field so a partially
// filled profile still yields usable work hours.
func (p profileResponse) toDomain() domain.UserProfile {
	profile := domain.DefaultProfile()

	if start, err := domain.ParseClockTime(p.WorkHoursStart); err == nil {
		profile.WorkHoursStart = start
	}
	if end, err := domain.ParseClockTime(p.WorkHoursEnd); err == nil {
		profile.WorkHoursEnd = end
	}
	if p.PeakEnergy != "" {
		profile.PeakEnergy = domain.PeakEnergyTime(p.PeakEnergy)
	}

	return profile
}

package stub

import "time"

type TaskResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Category         string     `json:"category"`
}

type TasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

type ProfileResponse struct {
	WorkHoursStart string `json:"work_hours_start"`
	WorkHoursEnd   string `json:"work_hours_end"`
	PeakEnergy     string `json:"peak_energy"`
}

type UserIDsResponse struct {
	UserIDs []string `json:"user_ids"`
	Count   int      `json:"count"`
}

type SeedRequest struct {
	Users []SeedUser `json:"users"`
}

type SeedUser struct {
	UserID  string           `json:"user_id"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Buckets []SeedBucket     `json:"buckets"`
}

type SeedBucket struct {
	DueStart         string `json:"due_start"`
	DueEnd           string `json:"due_end"`
	Count            int    `json:"count"`
	Priority         string `json:"priority"`
	Category         string `json:"category"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

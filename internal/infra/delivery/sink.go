package delivery

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

//go:generate mockgen -source=sink.go -destination=mock.go -package=delivery

// Notification is one scheduled notification handed to the delivery
// layer. The sink owns actually alerting the user; this service only
// describes what and when.
type Notification struct {
	UserID        string                  `json:"user_id"`
	TaskID        string                  `json:"task_id"`
	Type          domain.NotificationType `json:"type"`
	Priority      domain.Priority         `json:"priority"`
	Urgency       domain.Urgency          `json:"urgency"`
	Title         string                  `json:"title"`
	Body          string                  `json:"body"`
	Action        string                  `json:"action,omitempty"`
	TimeRemaining string                  `json:"time_remaining,omitempty"`
	Reason        string                  `json:"reason,omitempty"`
	DeliverAt     time.Time               `json:"deliver_at"`
}

// Pending describes a notification the sink has accepted but not yet
// delivered.
type Pending struct {
	Handle    string                  `json:"handle"`
	TaskID    string                  `json:"task_id"`
	Type      domain.NotificationType `json:"type"`
	DeliverAt time.Time               `json:"deliver_at"`
}

// Sink is the external notification delivery service. Schedule returns
// an opaque handle used to cancel the pending notification later.
type Sink interface {
	Schedule(ctx context.Context, n *Notification) (handle string, err error)
	Cancel(ctx context.Context, handle string) error
	CancelAllOfType(ctx context.Context, typ domain.NotificationType) error
	ListPending(ctx context.Context) ([]Pending, error)
}

// FromScheduled converts an engine decision into a sink submission.
func FromScheduled(userID, taskID string, n domain.ScheduledNotification) *Notification {
	return &Notification{
		UserID:        userID,
		TaskID:        taskID,
		Type:          n.Type,
		Priority:      n.Priority,
		Urgency:       n.Content.Urgency,
		Title:         n.Content.Title,
		Body:          n.Content.Body,
		Action:        n.Content.Action,
		TimeRemaining: n.Content.TimeRemaining,
		Reason:        n.Reason,
		DeliverAt:     n.Time,
	}
}

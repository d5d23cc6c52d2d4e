package taskstore

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// TaskRepository is the read surface the dispatcher needs from the
// task management service.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID string) ([]*domain.Task, error)
	GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	ListUserIDs(ctx context.Context, since time.Time) ([]string, error)
}

//go:build gcloud

package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// CloudTasksSink schedules notifications as Cloud Tasks HTTP tasks.
// The notification type is encoded into the task ID so pending tasks
// can be filtered without fetching full task bodies.
type CloudTasksSink struct {
	client     *cloudtasks.Client
	projectID  string
	locationID string
	queueID    string
	targetURL  string
	maxRetries int
}

type CloudTasksSinkConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
}

func NewCloudTasksSink(ctx context.Context, cfg CloudTasksSinkConfig) (*CloudTasksSink, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &CloudTasksSink{
		client:     client,
		projectID:  cfg.ProjectID,
		locationID: cfg.LocationID,
		queueID:    cfg.QueueID,
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (s *CloudTasksSink) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s",
		s.projectID, s.locationID, s.queueID)
}

// taskID encodes the notification type so CancelAllOfType can match on
// the task name alone. Cloud Tasks task IDs allow letters, digits,
// hyphens and underscores.
func taskID(typ domain.NotificationType) string {
	return fmt.Sprintf("remind_%s_%s", typ.String(), uuid.New().String())
}

func typeFromTaskName(name string) domain.NotificationType {
	base := name
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		base = name[idx+1:]
	}
	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 || parts[0] != "remind" {
		return ""
	}
	return domain.NotificationType(parts[1])
}

func (s *CloudTasksSink) Schedule(ctx context.Context, n *Notification) (string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	taskName := fmt.Sprintf("%s/tasks/%s", s.queuePath(), taskID(n.Type))

	cloudTask := &taskspb.Task{
		Name: taskName,
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        s.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
				Body: payload,
			},
		},
	}

	if !n.DeliverAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(n.DeliverAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: s.queuePath(),
		Task:   cloudTask,
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification task creation",
				slog.String("task_id", n.TaskID),
				slog.String("user_id", n.UserID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		handle, err := s.createTask(ctx, req, n)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification task creation",
		slog.String("task_id", n.TaskID),
		slog.String("user_id", n.UserID),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return "", fmt.Errorf("failed to schedule notification after %d retries: %w", s.maxRetries, lastErr)
}

func (s *CloudTasksSink) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, n *Notification) (string, error) {
	slog.Debug("registering notification to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("task_id", n.TaskID),
		slog.String("user_id", n.UserID),
	)

	createdTask, err := s.client.CreateTask(ctx, req)
	if err != nil {
		slog.Warn("failed to create cloud task",
			slog.String("task_id", n.TaskID),
			slog.String("user_id", n.UserID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.Info("notification registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("task_id", n.TaskID),
		slog.String("type", n.Type.String()),
		slog.Time("deliver_at", n.DeliverAt),
	)

	return createdTask.Name, nil
}

func (s *CloudTasksSink) Cancel(ctx context.Context, handle string) error {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying task deletion",
				slog.String("handle", handle),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := s.deleteTask(ctx, handle)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for task deletion",
		slog.String("handle", handle),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to cancel notification after %d retries: %w", s.maxRetries, lastErr)
}

func (s *CloudTasksSink) deleteTask(ctx context.Context, handle string) error {
	req := &taskspb.DeleteTaskRequest{
		Name: handle,
	}

	err := s.client.DeleteTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			slog.Info("task not found in Cloud Tasks (may have been delivered)",
				slog.String("handle", handle),
			)
			return nil
		}

		slog.Warn("failed to delete cloud task",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete cloud task: %w", err)
	}

	return nil
}

func (s *CloudTasksSink) CancelAllOfType(ctx context.Context, typ domain.NotificationType) error {
	it := s.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent: s.queuePath(),
	})

	var failed int
	for {
		task, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list cloud tasks: %w", err)
		}

		if typeFromTaskName(task.Name) != typ {
			continue
		}

		if err := s.deleteTask(ctx, task.Name); err != nil {
			slog.Warn("failed to cancel task during type-wide cancellation",
				slog.String("handle", task.Name),
				slog.String("type", typ.String()),
				slog.String("error", err.Error()),
			)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to cancel %d tasks of type %s", failed, typ)
	}
	return nil
}

func (s *CloudTasksSink) ListPending(ctx context.Context) ([]Pending, error) {
	it := s.client.ListTasks(ctx, &taskspb.ListTasksRequest{
		Parent: s.queuePath(),
	})

	var pending []Pending
	for {
		task, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list cloud tasks: %w", err)
		}

		p := Pending{
			Handle: task.Name,
			Type:   typeFromTaskName(task.Name),
		}
		if task.ScheduleTime != nil {
			p.DeliverAt = task.ScheduleTime.AsTime()
		}
		pending = append(pending, p)
	}

	return pending, nil
}

func (s *CloudTasksSink) Close() error {
	return s.client.Close()
}

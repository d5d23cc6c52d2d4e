package delivery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// NoopSink accepts every notification and delivers nothing. Used when
// the service runs without a delivery backend (dry runs, previews).
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Schedule(ctx context.Context, n *Notification) (string, error) {
	handle := uuid.New().String()
	slog.Debug("noop sink accepted notification",
		slog.String("task_id", n.TaskID),
		slog.String("type", n.Type.String()),
		slog.Time("deliver_at", n.DeliverAt),
		slog.String("handle", handle),
	)
	return handle, nil
}

func (s *NoopSink) Cancel(ctx context.Context, handle string) error {
	return nil
}

func (s *NoopSink) CancelAllOfType(ctx context.Context, typ domain.NotificationType) error {
	return nil
}

func (s *NoopSink) ListPending(ctx context.Context) ([]Pending, error) {
	return nil, nil
}

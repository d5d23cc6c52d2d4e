package decisionrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ScheduleDecisionRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDecisions(_ context.Context, _ []domain.ScheduleDecisionRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

const (
	taskStateKeyPrefix    = "schedule:state:"
	overdueCountKeyPrefix = "schedule:overdue:"
	dismissedKeyPrefix    = "schedule:dismissed:"
	trackedTasksKeyPrefix = "schedule:tracked:"

	taskStateTTL    = 14 * 24 * time.Hour // outlives the longest advance notice
	overdueCountTTL = 48 * time.Hour      // counters reset daily, TTL is a backstop
	dismissedTTL    = 48 * time.Hour
)

type taskStateRecord struct {
	TaskID           string     `json:"task_id"`
	Fingerprint      string     `json:"fingerprint"`
	Handles          []string   `json:"handles"`
	PendingOverdueAt *time.Time `json:"pending_overdue_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type scheduleStateRepository struct {
	client *redis.Client
}

func NewScheduleStateRepository(client *redis.Client) domain.ScheduleStateRepository {
	return &scheduleStateRepository{
		client: client,
	}
}

func taskStateKey(userID, taskID string) string {
	return taskStateKeyPrefix + userID + ":" + taskID
}

func trackedTasksKey(userID string) string {
	return trackedTasksKeyPrefix + userID
}

func overdueCountKey(userID, taskID, dayKey string) string {
	return overdueCountKeyPrefix + userID + ":" + taskID + ":" + dayKey
}

func dismissedKey(userID, dayKey string) string {
	return dismissedKeyPrefix + userID + ":" + dayKey
}

func (r *scheduleStateRepository) GetTaskState(ctx context.Context, userID, taskID string) (*domain.TaskState, error) {
	data, err := r.client.Get(ctx, taskStateKey(userID, taskID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTaskStateNotFound
		}
		return nil, err
	}

	var record taskStateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidTaskStateData
	}

	return &domain.TaskState{
		TaskID:           record.TaskID,
		Fingerprint:      record.Fingerprint,
		Handles:          record.Handles,
		PendingOverdueAt: record.PendingOverdueAt,
		UpdatedAt:        record.UpdatedAt,
	}, nil
}

func (r *scheduleStateRepository) SaveTaskState(ctx context.Context, userID string, state *domain.TaskState) error {
	if state == nil {
		return ErrInvalidTaskStateData
	}

	record := taskStateRecord{
		TaskID:           state.TaskID,
		Fingerprint:      state.Fingerprint,
		Handles:          state.Handles,
		PendingOverdueAt: state.PendingOverdueAt,
		UpdatedAt:        state.UpdatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidTaskStateData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, taskStateKey(userID, state.TaskID), data, taskStateTTL)
	pipe.SAdd(ctx, trackedTasksKey(userID), state.TaskID)
	pipe.Expire(ctx, trackedTasksKey(userID), taskStateTTL)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *scheduleStateRepository) DeleteTaskState(ctx context.Context, userID, taskID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, taskStateKey(userID, taskID))
	pipe.SRem(ctx, trackedTasksKey(userID), taskID)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *scheduleStateRepository) ListTrackedTaskIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, trackedTasksKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

func (r *scheduleStateRepository) OverdueReminderCount(ctx context.Context, userID, taskID, dayKey string) (int, error) {
	val, err := r.client.Get(ctx, overdueCountKey(userID, taskID, dayKey)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

func (r *scheduleStateRepository) IncrementOverdueReminderCount(ctx context.Context, userID, taskID, dayKey string) (int, error) {
	key := overdueCountKey(userID, taskID, dayKey)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, overdueCountTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int(incr.Val()), nil
}

// PruneOverdueCounters deletes counters for the user whose day segment
// differs from dayKey. Counters are keyed per calendar day so a stale
// counter would otherwise cap reminders on the wrong day.
func (r *scheduleStateRepository) PruneOverdueCounters(ctx context.Context, userID, dayKey string) error {
	pattern := overdueCountKeyPrefix + userID + ":*"

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, ":"+dayKey) {
			continue
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

func (r *scheduleStateRepository) MarkDismissed(ctx context.Context, userID, taskID, dayKey string) error {
	key := dismissedKey(userID, dayKey)

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, taskID)
	pipe.Expire(ctx, key, dismissedTTL)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *scheduleStateRepository) IsDismissed(ctx context.Context, userID, taskID, dayKey string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, dismissedKey(userID, dayKey), taskID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

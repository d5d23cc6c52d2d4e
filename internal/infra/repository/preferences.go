package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

const preferencesKeyPrefix = "prefs:user:"

type preferenceRepository struct {
	client *redis.Client
}

func NewPreferenceRepository(client *redis.Client) domain.PreferenceRepository {
	return &preferenceRepository{
		client: client,
	}
}

func preferencesKey(userID string) string {
	return preferencesKeyPrefix + userID
}

// GetPreferences returns the stored record decoded into Preferences. A
// missing record yields the defaults rather than an error; absence of
// tuning is not an exceptional state.
func (r *preferenceRepository) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	record, err := r.client.HGetAll(ctx, preferencesKey(userID)).Result()
	if err != nil {
		return domain.DefaultPreferences(), err
	}

	return domain.PreferencesFromRecord(record), nil
}

func (r *preferenceRepository) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	record := prefs.ToRecord()

	fields := make(map[string]interface{}, len(record))
	for k, v := range record {
		fields[k] = v
	}

	return r.client.HSet(ctx, preferencesKey(userID), fields).Err()
}

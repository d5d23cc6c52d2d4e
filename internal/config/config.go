package config

import (
	"os"
	"strconv"
)

type Config struct {
	TaskServiceURL string
	Port           string
	LogLevel       string
	Sink           SinkConfig
	Redis          *RedisConfig
	Scheduler      *SchedulerConfig
}

type SinkConfig struct {
	DeliveryServiceURL string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxRetries := 3
	if v := os.Getenv("SINK_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	schedulerConfig, err := LoadSchedulerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		TaskServiceURL: os.Getenv("TASK_SERVICE_URL"),
		Port:           port,
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Sink: SinkConfig{
			DeliveryServiceURL: os.Getenv("DELIVERY_SERVICE_URL"),

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

			MaxRetries: maxRetries,
		},
		Redis:     redisConfig,
		Scheduler: schedulerConfig,
	}, nil
}

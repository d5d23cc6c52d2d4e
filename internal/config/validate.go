package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.TaskServiceURL == "" {
		return errors.New("TASK_SERVICE_URL environment variable is required")
	}
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	return cfg.Sink.Validate()
}

package config

import (
	"path/filepath"
	"time"
)

// ApplyDefaults fills unset fields with sensible defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Watch.ReadRetries <= 0 {
		cfg.Watch.ReadRetries = 5
	}
	if cfg.Watch.ReadRetryDelay <= 0 {
		cfg.Watch.ReadRetryDelay = 500 * time.Millisecond
	}
	if cfg.Watch.TagRetries <= 0 {
		cfg.Watch.TagRetries = 3
	}
	if cfg.Watch.TagRetryDelay <= 0 {
		cfg.Watch.TagRetryDelay = 500 * time.Millisecond
	}

	if cfg.Classifier.Endpoint == "" {
		cfg.Classifier.Endpoint = "http://localhost:11434"
	}
	if cfg.Classifier.TextModel == "" {
		cfg.Classifier.TextModel = "mistral"
	}
	if cfg.Classifier.VisionModel == "" {
		cfg.Classifier.VisionModel = "pixtral"
	}
	if cfg.Classifier.Timeout <= 0 {
		cfg.Classifier.Timeout = 20 * time.Second
	}
	if cfg.Classifier.ImageTimeout <= 0 {
		cfg.Classifier.ImageTimeout = 30 * time.Second
	}

	if cfg.Queues.Dir == "" {
		cfg.Queues.Dir = "."
	}
	if cfg.Queues.ProcessedTTL <= 0 {
		cfg.Queues.ProcessedTTL = 30 * 24 * time.Hour
	}

	if cfg.Scheduler.DeletionInterval <= 0 {
		cfg.Scheduler.DeletionInterval = 30 * time.Second
	}
	if cfg.Scheduler.ReloadInterval <= 0 {
		cfg.Scheduler.ReloadInterval = 5 * time.Second
	}
	if cfg.Scheduler.TrashDir == "" {
		cfg.Scheduler.TrashDir = filepath.Join(cfg.Queues.Dir, ".trash")
	}

	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.Queues.Dir, "history.db")
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = "localhost:9090"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "vesta"
	}
}

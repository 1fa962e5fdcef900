package config

import "fmt"

// Validate checks the configuration for inconsistencies. Call after
// ApplyDefaults.
func Validate(cfg *Config) error {
	if len(cfg.Watch.Directories) == 0 {
		return fmt.Errorf("watch.directories must name at least one directory")
	}
	for _, dir := range cfg.Watch.Directories {
		if dir == "" {
			return fmt.Errorf("watch.directories must not contain empty entries")
		}
	}

	if cfg.Classifier.Endpoint == "" {
		return fmt.Errorf("classifier.endpoint is required")
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error, got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text, got %q", cfg.Telemetry.Logging.Format)
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	return nil
}

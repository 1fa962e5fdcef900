package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults
// and validates the result. Environment variables are not consulted;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides in the form
// VESTA_SECTION_FIELD (e.g. VESTA_CLASSIFIER_ENDPOINT). Environment
// variables always win over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VESTA_WATCH_DIRECTORIES"); val != "" {
		var dirs []string
		for _, dir := range strings.Split(val, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
		cfg.Watch.Directories = dirs
	}
	if val := os.Getenv("VESTA_WATCH_WINDOW_COMMAND"); val != "" {
		cfg.Watch.WindowCommand = val
	}

	if val := os.Getenv("VESTA_CLASSIFIER_ENDPOINT"); val != "" {
		cfg.Classifier.Endpoint = val
	}
	if val := os.Getenv("VESTA_CLASSIFIER_TEXT_MODEL"); val != "" {
		cfg.Classifier.TextModel = val
	}
	if val := os.Getenv("VESTA_CLASSIFIER_VISION_MODEL"); val != "" {
		cfg.Classifier.VisionModel = val
	}
	if val := os.Getenv("VESTA_CLASSIFIER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Classifier.Timeout = d
		}
	}
	if val := os.Getenv("VESTA_CLASSIFIER_IMAGE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Classifier.ImageTimeout = d
		}
	}

	if val := os.Getenv("VESTA_QUEUES_DIR"); val != "" {
		cfg.Queues.Dir = val
	}
	if val := os.Getenv("VESTA_QUEUES_PROCESSED_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Queues.ProcessedTTL = d
		}
	}

	if val := os.Getenv("VESTA_SCHEDULER_DELETION_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.DeletionInterval = d
		}
	}
	if val := os.Getenv("VESTA_SCHEDULER_RELOAD_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.ReloadInterval = d
		}
	}
	if val := os.Getenv("VESTA_SCHEDULER_TRASH_DIR"); val != "" {
		cfg.Scheduler.TrashDir = val
	}

	if val := os.Getenv("VESTA_VAULT_KEY_PATH"); val != "" {
		cfg.Vault.KeyPath = val
	}

	if val := os.Getenv("VESTA_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("VESTA_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}

	if val := os.Getenv("VESTA_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VESTA_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("VESTA_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("VESTA_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
watch:
  directories:
    - /downloads
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Watch.ReadRetries != 5 {
		t.Errorf("ReadRetries = %d, want 5", cfg.Watch.ReadRetries)
	}
	if cfg.Watch.ReadRetryDelay != 500*time.Millisecond {
		t.Errorf("ReadRetryDelay = %v, want 500ms", cfg.Watch.ReadRetryDelay)
	}
	if cfg.Watch.TagRetries != 3 {
		t.Errorf("TagRetries = %d, want 3", cfg.Watch.TagRetries)
	}
	if cfg.Classifier.Endpoint != "http://localhost:11434" {
		t.Errorf("Endpoint = %q", cfg.Classifier.Endpoint)
	}
	if cfg.Classifier.TextModel != "mistral" || cfg.Classifier.VisionModel != "pixtral" {
		t.Errorf("models = %q/%q", cfg.Classifier.TextModel, cfg.Classifier.VisionModel)
	}
	if cfg.Scheduler.DeletionInterval != 30*time.Second {
		t.Errorf("DeletionInterval = %v, want 30s", cfg.Scheduler.DeletionInterval)
	}
	if cfg.Queues.ProcessedTTL != 30*24*time.Hour {
		t.Errorf("ProcessedTTL = %v, want 720h", cfg.Queues.ProcessedTTL)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("logging = %q/%q", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
watch:
  directories:
    - /downloads
    - /screenshots
  read_retries: 10
  window_command: "xdotool getactivewindow"
classifier:
  endpoint: http://gpu-box:11434
  text_model: llama3
queues:
  dir: /var/lib/vesta
scheduler:
  deletion_interval: 1m
history:
  enabled: true
telemetry:
  logging:
    level: debug
    format: json
  metrics:
    enabled: true
    listen_address: ":9100"
`))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if len(cfg.Watch.Directories) != 2 {
		t.Errorf("Directories = %v", cfg.Watch.Directories)
	}
	if cfg.Watch.ReadRetries != 10 {
		t.Errorf("ReadRetries = %d, want 10", cfg.Watch.ReadRetries)
	}
	if cfg.Classifier.Endpoint != "http://gpu-box:11434" || cfg.Classifier.TextModel != "llama3" {
		t.Errorf("classifier = %+v", cfg.Classifier)
	}
	if cfg.Scheduler.DeletionInterval != time.Minute {
		t.Errorf("DeletionInterval = %v, want 1m", cfg.Scheduler.DeletionInterval)
	}
	if cfg.Scheduler.TrashDir != filepath.Join("/var/lib/vesta", ".trash") {
		t.Errorf("TrashDir = %q, want default under the queues dir", cfg.Scheduler.TrashDir)
	}
	if cfg.History.Path != filepath.Join("/var/lib/vesta", "history.db") {
		t.Errorf("History.Path = %q, want default under the queues dir", cfg.History.Path)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.ListenAddress != ":9100" {
		t.Errorf("metrics = %+v", cfg.Telemetry.Metrics)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no directories", `classifier: {endpoint: "http://x"}`},
		{"empty directory entry", "watch:\n  directories:\n    - \"\"\n"},
		{"bad log level", minimalConfig + "telemetry:\n  logging:\n    level: loud\n"},
		{"bad log format", minimalConfig + "telemetry:\n  logging:\n    format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("VESTA_CLASSIFIER_ENDPOINT", "http://override:11434")
	t.Setenv("VESTA_WATCH_DIRECTORIES", "/a, /b")
	t.Setenv("VESTA_QUEUES_PROCESSED_TTL", "48h")
	t.Setenv("VESTA_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("VESTA_HISTORY_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides returned error: %v", err)
	}

	if cfg.Classifier.Endpoint != "http://override:11434" {
		t.Errorf("Endpoint = %q, want the env override", cfg.Classifier.Endpoint)
	}
	if len(cfg.Watch.Directories) != 2 || cfg.Watch.Directories[0] != "/a" || cfg.Watch.Directories[1] != "/b" {
		t.Errorf("Directories = %v, want [/a /b]", cfg.Watch.Directories)
	}
	if cfg.Queues.ProcessedTTL != 48*time.Hour {
		t.Errorf("ProcessedTTL = %v, want 48h", cfg.Queues.ProcessedTTL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Telemetry.Logging.Level)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should be overridden to true")
	}
}

func TestEnvOverrideInvalidValueIgnored(t *testing.T) {
	t.Setenv("VESTA_CLASSIFIER_TIMEOUT", "not a duration")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides returned error: %v", err)
	}
	if cfg.Classifier.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want the default when the override is unparsable", cfg.Classifier.Timeout)
	}
}

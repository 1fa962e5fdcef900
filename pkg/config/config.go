package config

import "time"

// Config is the root configuration for the vesta daemon and CLI.
type Config struct {
	Watch      WatchConfig      `yaml:"watch"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Queues     QueuesConfig     `yaml:"queues"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Vault      VaultConfig      `yaml:"vault"`
	History    HistoryConfig    `yaml:"history"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	// Directories to watch for new files.
	Directories []string `yaml:"directories"`

	// ReadRetries is how many times a new file is probed for
	// readability before being skipped.
	ReadRetries int `yaml:"read_retries"`

	// ReadRetryDelay is the pause between readability probes.
	ReadRetryDelay time.Duration `yaml:"read_retry_delay"`

	// TagRetries is how many rename attempts the provenance tagger
	// makes.
	TagRetries int `yaml:"tag_retries"`

	// TagRetryDelay is the pause between rename attempts.
	TagRetryDelay time.Duration `yaml:"tag_retry_delay"`

	// WindowCommand, if set, is a shell command printing the active
	// process name on line one and the window title on line two.
	WindowCommand string `yaml:"window_command"`
}

// ClassifierConfig configures the AI collaborator.
type ClassifierConfig struct {
	// Endpoint is the base URL of the Ollama server.
	Endpoint string `yaml:"endpoint"`

	// TextModel handles text prompts.
	TextModel string `yaml:"text_model"`

	// VisionModel handles image prompts.
	VisionModel string `yaml:"vision_model"`

	// Timeout bounds text calls.
	Timeout time.Duration `yaml:"timeout"`

	// ImageTimeout bounds image calls.
	ImageTimeout time.Duration `yaml:"image_timeout"`
}

// QueuesConfig configures the durable queue files.
type QueuesConfig struct {
	// Dir is the directory holding the queue JSON files, rule files,
	// processed set and deletion schedule.
	Dir string `yaml:"dir"`

	// ProcessedTTL is how long processed-set entries are retained.
	// Zero disables eviction.
	ProcessedTTL time.Duration `yaml:"processed_ttl"`
}

// SchedulerConfig configures the periodic jobs.
type SchedulerConfig struct {
	// DeletionInterval is the period of the deletion scan.
	DeletionInterval time.Duration `yaml:"deletion_interval"`

	// ReloadInterval is the period of the processed-set reload.
	ReloadInterval time.Duration `yaml:"reload_interval"`

	// TrashDir is where expired files are moved. Empty defaults to
	// a .trash directory next to the queues.
	TrashDir string `yaml:"trash_dir"`
}

// VaultConfig configures file encryption.
type VaultConfig struct {
	// KeyPath is the path of the encryption key file.
	KeyPath string `yaml:"key_path"`
}

// HistoryConfig configures the decision history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
	Namespace     string `yaml:"namespace"`
}

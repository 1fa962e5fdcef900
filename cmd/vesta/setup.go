package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"tidy-hq/vesta/pkg/config"
	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/rules"
)

const (
	ruleFileName        = "sorting_rules.json"
	descriptionFileName = "rules.json"
	processedFileName   = "processed_files.json"
	scheduleFileName    = "deletion_schedule.json"
)

// loadConfig loads the configuration named by the global --config flag
// and applies the --verbose override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from config and installs it as
// the slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Telemetry.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Telemetry.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// openQueues opens the durable state shared by the daemon and the
// approval commands.
func openQueues(cfg *config.Config, logger *slog.Logger) (*queue.Set, *queue.ProcessedSet, *rules.Store, error) {
	if err := os.MkdirAll(cfg.Queues.Dir, 0o755); err != nil {
		return nil, nil, nil, err
	}

	queues := queue.NewSet(cfg.Queues.Dir, logger)

	processed := queue.NewProcessedSet(
		filepath.Join(cfg.Queues.Dir, processedFileName), cfg.Queues.ProcessedTTL, logger)

	store := rules.NewStore(
		filepath.Join(cfg.Queues.Dir, ruleFileName),
		filepath.Join(cfg.Queues.Dir, descriptionFileName),
		logger)

	return queues, processed, store, nil
}

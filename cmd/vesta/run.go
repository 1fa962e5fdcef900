package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"tidy-hq/vesta/pkg/classify"
	"tidy-hq/vesta/pkg/classify/ollama"
	"tidy-hq/vesta/pkg/config"
	"tidy-hq/vesta/pkg/history"
	"tidy-hq/vesta/pkg/router"
	"tidy-hq/vesta/pkg/rules/engine"
	"tidy-hq/vesta/pkg/schedule"
	"tidy-hq/vesta/pkg/telemetry/metrics"
	"tidy-hq/vesta/pkg/watch"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the watcher daemon",
	Long: `Start the watcher daemon with the specified configuration.

The daemon monitors the configured directories, classifies every new
file, evaluates the sorting rules and queues matched actions for later
approval. It also runs the scheduled-deletion scan.

Examples:
  # Start with default config
  vesta run

  # Start with custom config
  vesta run --config /etc/vesta/config.yaml

  # Validate config without starting
  vesta run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	logger := newLogger(cfg)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	queues, processed, store, err := openQueues(cfg, logger)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Telemetry.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New(cfg.Telemetry.Metrics.Namespace, registry)
		go serveMetrics(cfg, registry, logger)
	}

	collab, err := ollama.New(ollama.Config{
		BaseURL:      cfg.Classifier.Endpoint,
		TextModel:    cfg.Classifier.TextModel,
		VisionModel:  cfg.Classifier.VisionModel,
		Timeout:      cfg.Classifier.Timeout,
		ImageTimeout: cfg.Classifier.ImageTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	resolver := classify.NewResolver(classify.Instrument(collab, m), logger)

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.History.Path, logger)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	schedStore := schedule.NewStore(filepath.Join(cfg.Queues.Dir, scheduleFileName), logger)
	rtr := router.New(queues, schedStore, resolver, hist, m, logger)

	scheduler := schedule.NewScheduler(
		schedStore, schedule.NewDirTrasher(cfg.Scheduler.TrashDir), processed, m, logger)
	if err := scheduler.Start(cfg.Scheduler.DeletionInterval, cfg.Scheduler.ReloadInterval); err != nil {
		return err
	}
	defer scheduler.Stop()

	var windows watch.WindowProvider
	if cfg.Watch.WindowCommand != "" {
		windows = watch.NewCommandWindowProvider(cfg.Watch.WindowCommand, logger)
	}

	watcher, err := watch.NewWatcher(watch.Config{
		Directories:    cfg.Watch.Directories,
		ReadRetries:    cfg.Watch.ReadRetries,
		ReadRetryDelay: cfg.Watch.ReadRetryDelay,
		TagRetries:     cfg.Watch.TagRetries,
		TagRetryDelay:  cfg.Watch.TagRetryDelay,
	}, store, resolver, engine.New(logger), rtr, processed, windows, m, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Printf("Vesta v%s\n", Version)
	for _, dir := range cfg.Watch.Directories {
		fmt.Printf("✓ Watching %s\n", dir)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watcher.Watch(ctx)
}

func serveMetrics(cfg *config.Config, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(cfg.Telemetry.Metrics.ListenAddress, mux); err != nil {
		logger.Error("metrics listener failed", "error", err)
	}
}

package schedule

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/telemetry/metrics"
)

// Scheduler runs the periodic deletion scan and keeps the processed set
// in sync with external edits to its file.
type Scheduler struct {
	store     *Store
	trasher   Trasher
	processed *queue.ProcessedSet
	metrics   *metrics.Metrics
	logger    *slog.Logger

	cron *cron.Cron
	now  func() time.Time

	// Paths whose target was already missing on the previous scan.
	// A target missing twice in a row is dropped from the schedule;
	// seeing it once may just be a rename racing the scan.
	missing map[string]bool
}

// NewScheduler creates a scheduler over the given schedule store.
// processed and m may be nil.
func NewScheduler(store *Store, trasher Trasher, processed *queue.ProcessedSet, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:     store,
		trasher:   trasher,
		processed: processed,
		metrics:   m,
		logger:    logger.With("component", "schedule.scheduler"),
		now:       time.Now,
		missing:   make(map[string]bool),
	}
}

// Start begins the periodic jobs. deletionEvery drives the deletion
// scan; reloadEvery drives the processed-set reload and may be zero to
// disable it.
func (s *Scheduler) Start(deletionEvery, reloadEvery time.Duration) error {
	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}
	c := cron.New()

	spec := fmt.Sprintf("@every %s", deletionEvery)
	if _, err := c.AddFunc(spec, func() {
		if err := s.RunOnce(); err != nil {
			s.logger.Error("deletion scan failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule deletion scan: %w", err)
	}

	if s.processed != nil && reloadEvery > 0 {
		spec := fmt.Sprintf("@every %s", reloadEvery)
		if _, err := c.AddFunc(spec, func() {
			if err := s.processed.Reload(); err != nil {
				s.logger.Warn("processed set reload failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule processed set reload: %w", err)
		}
	}

	c.Start()
	s.cron = c
	s.logger.Info("scheduler started",
		"deletion_interval", deletionEvery, "reload_interval", reloadEvery)
	return nil
}

// Stop halts the periodic jobs and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// RunOnce performs a single deletion scan: every entry whose deadline
// has passed is trashed and removed from the schedule. A failed trash
// leaves the entry in place for the next scan.
func (s *Scheduler) RunOnce() error {
	schedule, err := s.store.Load()
	if err != nil {
		return err
	}

	now := s.now()
	for path, deadline := range schedule {
		if now.Before(deadline) {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			if s.missing[path] {
				s.logger.Info("scheduled file gone, dropping entry", "path", path)
				delete(schedule, path)
				delete(s.missing, path)
				s.metrics.DeletionAttempt("missing")
			} else {
				s.missing[path] = true
			}
			continue
		}
		delete(s.missing, path)

		if err := s.trasher.Trash(path); err != nil {
			s.logger.Error("failed to delete scheduled file", "path", path, "error", err)
			s.metrics.DeletionAttempt("error")
			continue
		}

		s.logger.Info("deleted scheduled file", "path", path, "deadline", deadline)
		s.metrics.DeletionAttempt("deleted")
		delete(schedule, path)
	}

	// Always rewrite the file, even when nothing was trashed: Load drops
	// entries it cannot parse, and the rewrite is what cleans them from
	// disk.
	return s.store.Save(schedule)
}

package router

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tidy-hq/vesta/pkg/classify"
	"tidy-hq/vesta/pkg/history"
	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/rules"
	"tidy-hq/vesta/pkg/rules/engine"
	"tidy-hq/vesta/pkg/schedule"
	"tidy-hq/vesta/pkg/telemetry/metrics"
)

// Router turns a rule decision into a durable side effect: a pending
// queue entry, a capability queue entry, or a deletion deadline. No
// file is touched here; execution happens later at approval time.
type Router struct {
	queues   *queue.Set
	schedule *schedule.Store
	resolver *classify.Resolver
	history  *history.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a router. history and m may be nil.
func New(queues *queue.Set, sched *schedule.Store, resolver *classify.Resolver, hist *history.Store, m *metrics.Metrics, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		queues:   queues,
		schedule: sched,
		resolver: resolver,
		history:  hist,
		metrics:  m,
		logger:   logger.With("component", "router"),
		now:      time.Now,
	}
}

// Route enqueues or schedules the decided action for path. A failure
// to resolve a move/copy target or parse a retention interval drops
// the file: it stays where it is and is not queued.
func (r *Router) Route(ctx context.Context, path string, dec engine.Decision, vars map[string]string) error {
	action := dec.Action

	switch action.Type {
	case rules.ActionNone:
		r.logger.Debug("no action for file", "path", path)
		return nil

	case rules.ActionMove, rules.ActionCopy:
		target, err := r.resolveTarget(ctx, action.TargetPath, vars)
		if err != nil {
			r.logger.Error("dropping file, target template unresolved",
				"path", path, "template", action.TargetPath, "error", err)
			r.metrics.RouteFailed()
			return err
		}
		entry := queue.PendingEntry{
			ID:           uuid.NewString(),
			OriginalPath: path,
			TargetPath:   target,
			Type:         string(action.Type),
			Timestamp:    r.now(),
		}
		if err := r.queues.Pending.Append(entry); err != nil {
			r.metrics.RouteFailed()
			return err
		}
		r.logger.Info("queued for approval",
			"path", path, "action", action.Type, "target", target)

	case rules.ActionEncrypt, rules.ActionDecrypt:
		if err := r.queues.PathQueue(queue.Name(action.Type)).Append(path); err != nil {
			r.metrics.RouteFailed()
			return err
		}
		r.logger.Info("queued for approval", "path", path, "action", action.Type)

	case rules.ActionCompress, rules.ActionExtract:
		// The target template is informational for these actions; a
		// resolution failure does not block queueing.
		if action.TargetPath != "" {
			if target, err := r.resolveTarget(ctx, action.TargetPath, vars); err == nil {
				r.logger.Debug("resolved display target", "path", path, "target", target)
			} else {
				r.logger.Debug("display target unresolved",
					"path", path, "template", action.TargetPath, "error", err)
			}
		}
		if err := r.queues.PathQueue(queue.Name(action.Type)).Append(path); err != nil {
			r.metrics.RouteFailed()
			return err
		}
		r.logger.Info("queued for approval", "path", path, "action", action.Type)

	case rules.ActionDelete:
		retention, err := ParseRetention(action.Time)
		if err != nil {
			r.logger.Error("dropping file, unparsable retention",
				"path", path, "retention", action.Time, "error", err)
			r.metrics.RouteFailed()
			return err
		}
		deadline := r.now().Add(retention)
		if err := r.schedule.Add(path, deadline); err != nil {
			r.metrics.RouteFailed()
			return err
		}
		r.logger.Info("scheduled for deletion", "path", path, "deadline", deadline)

	default:
		r.logger.Warn("unknown action type, ignoring", "path", path, "action", action.Type)
		return nil
	}

	r.metrics.FileRouted(string(action.Type))
	r.recordHistory(ctx, path, dec)
	return nil
}

// resolveTarget resolves a move/copy target template. Templates that
// name a directory (no filename placeholder) get the file's own name
// appended.
func (r *Router) resolveTarget(ctx context.Context, template string, vars map[string]string) (string, error) {
	if !strings.Contains(template, "{filename}") && !strings.Contains(template, "{file_name}") {
		template = filepath.Join(template, "{filename}")
	}
	return r.resolver.ResolveTemplate(ctx, template, vars)
}

func (r *Router) recordHistory(ctx context.Context, path string, dec engine.Decision) {
	if r.history == nil || dec.Rule == nil {
		return
	}
	rec := &history.Record{
		Path:       path,
		Condition:  dec.Rule.Condition,
		ActionType: string(dec.Action.Type),
		Target:     dec.Action.TargetPath,
	}
	if err := r.history.Record(ctx, rec); err != nil {
		r.logger.Warn("failed to record decision", "path", path, "error", err)
	}
}

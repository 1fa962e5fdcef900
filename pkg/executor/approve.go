package executor

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/rules"
)

// Crypter applies encryption capabilities at approval time.
type Crypter interface {
	Encrypt(path string) (string, error)
	Decrypt(path string) (string, error)
}

// Archiver applies compression capabilities at approval time.
type Archiver interface {
	Compress(path, outDir string) (string, error)
	Extract(zipPath, outDir string) ([]string, error)
}

// Approver executes the contents of the durable queues once the user
// signs off. Pending move/copy entries that fail stay queued for the
// next approval; capability queues are drained in full, with failures
// logged.
type Approver struct {
	queues    *queue.Set
	exec      *Executor
	crypter   Crypter
	archiver  Archiver
	processed *queue.ProcessedSet
	logger    *slog.Logger
}

// NewApprover creates an approver. crypter, archiver and processed may
// be nil; a nil capability makes the matching queue fail per entry.
func NewApprover(queues *queue.Set, exec *Executor, crypter Crypter, archiver Archiver, processed *queue.ProcessedSet, logger *slog.Logger) *Approver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Approver{
		queues:    queues,
		exec:      exec,
		crypter:   crypter,
		archiver:  archiver,
		processed: processed,
		logger:    logger.With("component", "approver"),
	}
}

// ListPending returns the current contents of the pending queue.
func (a *Approver) ListPending() ([]queue.PendingEntry, error) {
	return a.queues.Pending.Load()
}

// ApproveAll executes every queued action. It returns the number of
// successfully executed actions and the first error encountered while
// persisting queue state.
func (a *Approver) ApproveAll() (int, error) {
	executed := 0

	n, err := a.approvePending()
	executed += n
	if err != nil {
		return executed, err
	}

	for _, name := range []queue.Name{queue.Encrypt, queue.Decrypt, queue.Compress, queue.Extract} {
		n, err := a.approvePaths(name)
		executed += n
		if err != nil {
			return executed, err
		}
	}
	return executed, nil
}

func (a *Approver) approvePending() (int, error) {
	entries, err := a.queues.Pending.Load()
	if err != nil {
		return 0, err
	}

	executed := 0
	var failed []queue.PendingEntry
	for _, entry := range entries {
		op := OpMove
		if entry.Type == string(rules.ActionCopy) {
			op = OpCopy
		}
		final, err := a.exec.Apply(entry.OriginalPath, entry.TargetPath, op)
		if err != nil {
			a.logger.Error("pending action failed, keeping queued",
				"path", entry.OriginalPath, "action", entry.Type, "error", err)
			failed = append(failed, entry)
			continue
		}
		a.markProcessed(final)
		executed++
	}

	return executed, a.queues.Pending.ReplaceAll(failed)
}

func (a *Approver) approvePaths(name queue.Name) (int, error) {
	q := a.queues.PathQueue(name)
	paths, err := q.Load()
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, path := range paths {
		if err := a.applyCapability(name, path); err != nil {
			a.logger.Error("queued action failed",
				"path", path, "action", name, "error", err)
			continue
		}
		executed++
	}

	return executed, q.ReplaceAll(nil)
}

func (a *Approver) applyCapability(name queue.Name, path string) error {
	switch name {
	case queue.Encrypt:
		if a.crypter == nil {
			return fmt.Errorf("no encryption key configured")
		}
		out, err := a.crypter.Encrypt(path)
		if err != nil {
			return err
		}
		a.markProcessed(out)
	case queue.Decrypt:
		if a.crypter == nil {
			return fmt.Errorf("no encryption key configured")
		}
		out, err := a.crypter.Decrypt(path)
		if err != nil {
			return err
		}
		a.markProcessed(out)
	case queue.Compress:
		if a.archiver == nil {
			return fmt.Errorf("no archiver configured")
		}
		outDir := filepath.Join(filepath.Dir(path), "Compressed")
		out, err := a.archiver.Compress(path, outDir)
		if err != nil {
			return err
		}
		a.markProcessed(out)
	case queue.Extract:
		if a.archiver == nil {
			return fmt.Errorf("no archiver configured")
		}
		outDir := filepath.Join(filepath.Dir(path), "Extracted")
		extracted, err := a.archiver.Extract(path, outDir)
		if err != nil {
			return err
		}
		if a.processed != nil {
			if err := a.processed.MarkAll(extracted); err != nil {
				a.logger.Warn("failed to mark extracted files", "error", err)
			}
		}
	default:
		return fmt.Errorf("unknown queue %q", name)
	}
	return nil
}

// markProcessed records an output path so a watched target directory
// does not re-process files the approver itself created.
func (a *Approver) markProcessed(path string) {
	if a.processed == nil {
		return
	}
	if err := a.processed.Mark(path); err != nil {
		a.logger.Warn("failed to mark output path", "path", path, "error", err)
	}
}

// RejectSelected removes the entries at the given zero-based indices
// from the named queue without executing them.
func (a *Approver) RejectSelected(name queue.Name, indices []int) error {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}

	if name == queue.Pending {
		entries, err := a.queues.Pending.Load()
		if err != nil {
			return err
		}
		kept := entries[:0]
		for i, entry := range entries {
			if !drop[i] {
				kept = append(kept, entry)
			}
		}
		return a.queues.Pending.ReplaceAll(kept)
	}

	q := a.queues.PathQueue(name)
	if q == nil {
		return fmt.Errorf("unknown queue %q", name)
	}
	paths, err := q.Load()
	if err != nil {
		return err
	}
	kept := paths[:0]
	for i, path := range paths {
		if !drop[i] {
			kept = append(kept, path)
		}
	}
	return q.ReplaceAll(kept)
}

package queue

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
)

// Queue is a durable, append-only list persisted as a single JSON file.
// Every mutation is a full read-modify-write of the file, serialized by
// the per-queue mutex; the file is a single-writer-at-a-time resource
// within the process. Items are removed only by ReplaceAll, which is how
// accept/reject/clear operations rewrite the surviving subset.
type Queue[T any] struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a queue backed by the JSON file at path.
func New[T any](path string, logger *slog.Logger) *Queue[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue[T]{path: path, logger: logger.With("queue", path)}
}

// Path returns the backing file path.
func (q *Queue[T]) Path() string { return q.path }

// Load returns the queue contents. A missing file is an empty queue; a
// corrupt file is logged and treated as empty rather than wedging the
// pipeline.
func (q *Queue[T]) Load() ([]T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loadLocked()
}

func (q *Queue[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistError{Path: q.path, Op: "read", Cause: err}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		q.logger.Warn("corrupt queue file, treating as empty", "error", err)
		return nil, nil
	}
	return items, nil
}

func (q *Queue[T]) writeLocked(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return &PersistError{Path: q.path, Op: "encode", Cause: err}
	}
	if err := os.WriteFile(q.path, data, 0o644); err != nil {
		return &PersistError{Path: q.path, Op: "write", Cause: err}
	}
	return nil
}

// Append adds one item to the end of the queue. On write failure the
// operation is not committed and the caller sees a PersistError.
func (q *Queue[T]) Append(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.loadLocked()
	if err != nil {
		return err
	}
	return q.writeLocked(append(items, item))
}

// ReplaceAll rewrites the queue with exactly items.
func (q *Queue[T]) ReplaceAll(items []T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.writeLocked(items)
}

// Len returns the current number of items.
func (q *Queue[T]) Len() (int, error) {
	items, err := q.Load()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

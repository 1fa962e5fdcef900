package schedule

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Store persists the deletion schedule: absolute file path mapped to the
// absolute deadline after which the file becomes eligible for deletion.
// The on-disk format is a JSON object of path -> RFC 3339 timestamp.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewStore creates a schedule store backed by the JSON file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger.With("component", "schedule.store")}
}

// Load returns the schedule. Missing or corrupt files yield an empty
// schedule.
func (s *Store) Load() (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (map[string]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]time.Time{}, nil
		}
		return nil, fmt.Errorf("failed to read deletion schedule %q: %w", s.path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("corrupt deletion schedule, treating as empty", "error", err)
		return map[string]time.Time{}, nil
	}

	schedule := make(map[string]time.Time, len(raw))
	for path, stamp := range raw {
		deadline, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			s.logger.Warn("dropping schedule entry with unparsable deadline",
				"path", path, "deadline", stamp)
			continue
		}
		schedule[path] = deadline
	}
	return schedule, nil
}

// Save rewrites the schedule in full.
func (s *Store) Save(schedule map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(schedule)
}

func (s *Store) saveLocked(schedule map[string]time.Time) error {
	raw := make(map[string]string, len(schedule))
	for path, deadline := range schedule {
		raw[path] = deadline.Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deletion schedule: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write deletion schedule %q: %w", s.path, err)
	}
	return nil
}

// Add upserts a deadline for path.
func (s *Store) Add(path string, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, err := s.loadLocked()
	if err != nil {
		return err
	}
	schedule[path] = deadline
	return s.saveLocked(schedule)
}

// Remove deletes the entries for paths, if present.
func (s *Store) Remove(paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, err := s.loadLocked()
	if err != nil {
		return err
	}
	for _, path := range paths {
		delete(schedule, path)
	}
	return s.saveLocked(schedule)
}

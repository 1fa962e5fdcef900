package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Record is one routed decision: which rule fired for which file and
// where the file was sent.
type Record struct {
	ID         string
	Path       string
	Condition  string
	ActionType string
	Target     string
	RoutedAt   time.Time
}

// Store persists routing decisions to SQLite. It is the durable audit
// trail behind "what did the daemon decide and why".
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	condition   TEXT NOT NULL,
	action_type TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	routed_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_routed_at ON decisions(routed_at);
`

// Open opens (and if needed initializes) the decision history database
// at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %q: %w", path, err)
	}

	// Single writer; more connections just contend on the file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "history"),
	}, nil
}

// Record stores one decision. A zero ID gets a generated UUID and a zero
// RoutedAt gets the current time.
func (s *Store) Record(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RoutedAt.IsZero() {
		rec.RoutedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, path, condition, action_type, target, routed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Condition, rec.ActionType, rec.Target, rec.RoutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision for %q: %w", rec.Path, err)
	}
	return nil
}

// Recent returns the most recent decisions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, condition, action_type, target, routed_at
		 FROM decisions ORDER BY routed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Condition, &rec.ActionType, &rec.Target, &rec.RoutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

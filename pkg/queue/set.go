package queue

import (
	"log/slog"
	"path/filepath"
	"time"
)

// Name identifies one of the durable action queues.
type Name string

const (
	// Pending holds move/copy proposals awaiting user approval.
	Pending Name = "pending"

	// Encrypt, Decrypt, Compress and Extract hold bare file paths
	// awaiting batch execution by the matching capability.
	Encrypt  Name = "encrypt"
	Decrypt  Name = "decrypt"
	Compress Name = "compress"
	Extract  Name = "extract"
)

// KnownNames lists every queue, in display order.
var KnownNames = []Name{Pending, Encrypt, Decrypt, Compress, Extract}

// FileName returns the on-disk file name for a queue.
func (n Name) FileName() string {
	switch n {
	case Pending:
		return "pending_actions.json"
	default:
		return string(n) + "_actions.json"
	}
}

// PendingEntry is a staged move or copy awaiting approval.
type PendingEntry struct {
	ID           string    `json:"id,omitempty"`
	OriginalPath string    `json:"original_path"`
	TargetPath   string    `json:"target_path"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
}

// Set bundles all durable queues under one directory.
type Set struct {
	Pending  *Queue[PendingEntry]
	Encrypt  *Queue[string]
	Decrypt  *Queue[string]
	Compress *Queue[string]
	Extract  *Queue[string]
}

// NewSet creates the queue set rooted at dir.
func NewSet(dir string, logger *slog.Logger) *Set {
	return &Set{
		Pending:  New[PendingEntry](filepath.Join(dir, Pending.FileName()), logger),
		Encrypt:  New[string](filepath.Join(dir, Encrypt.FileName()), logger),
		Decrypt:  New[string](filepath.Join(dir, Decrypt.FileName()), logger),
		Compress: New[string](filepath.Join(dir, Compress.FileName()), logger),
		Extract:  New[string](filepath.Join(dir, Extract.FileName()), logger),
	}
}

// PathQueue returns the bare-path queue for name, or nil for Pending and
// unknown names.
func (s *Set) PathQueue(name Name) *Queue[string] {
	switch name {
	case Encrypt:
		return s.Encrypt
	case Decrypt:
		return s.Decrypt
	case Compress:
		return s.Compress
	case Extract:
		return s.Extract
	}
	return nil
}

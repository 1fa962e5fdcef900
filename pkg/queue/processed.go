package queue

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"
)

// ProcessedSet tracks paths the watcher has already routed, preventing
// duplicate routing when the same creation event fires twice (the
// metadata-tagging rename itself looks like a second creation).
//
// The set is persisted as a flat JSON list of paths so other processes
// (the approval layer records extracted files) can append to it; Reload
// merges external additions. First-seen times are kept in memory only
// and drive TTL eviction at save time, which bounds growth over long
// runs without changing the on-disk format.
type ProcessedSet struct {
	path   string
	ttl    time.Duration
	mu     sync.Mutex
	seen   map[string]time.Time
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewProcessedSet creates the set backed by the JSON list at path.
// Entries older than ttl are evicted on save; ttl <= 0 disables
// eviction.
func NewProcessedSet(path string, ttl time.Duration, logger *slog.Logger) *ProcessedSet {
	if logger == nil {
		logger = slog.Default()
	}
	p := &ProcessedSet{
		path:   path,
		ttl:    ttl,
		seen:   make(map[string]time.Time),
		logger: logger.With("component", "queue.processed"),
		now:    time.Now,
	}
	if err := p.Reload(); err != nil {
		p.logger.Warn("failed to load processed set", "error", err)
	}
	return p
}

// Contains reports whether path has already been routed.
func (p *ProcessedSet) Contains(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.seen[path]
	return ok
}

// MarkIfNew atomically checks and inserts path, returning true when the
// path was not yet present. The check-and-insert is one step under the
// mutex: two workers racing on the same event cannot both win.
func (p *ProcessedSet) MarkIfNew(path string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[path]; ok {
		return false, nil
	}
	p.seen[path] = p.now()
	return true, p.saveLocked()
}

// Mark inserts path unconditionally.
func (p *ProcessedSet) Mark(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[path]; ok {
		return nil
	}
	p.seen[path] = p.now()
	return p.saveLocked()
}

// MarkAll inserts several paths with a single rewrite.
func (p *ProcessedSet) MarkAll(paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := false
	for _, path := range paths {
		if _, ok := p.seen[path]; !ok {
			p.seen[path] = p.now()
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return p.saveLocked()
}

// Reload merges paths persisted by other processes into the in-memory
// set. Entries added externally get a first-seen of now. Paths evicted
// locally but still present on disk are not resurrected past their TTL
// because the next save rewrites the file.
func (p *ProcessedSet) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &PersistError{Path: p.path, Op: "read", Cause: err}
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		p.logger.Warn("corrupt processed set file, ignoring", "error", err)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, path := range paths {
		if _, ok := p.seen[path]; !ok {
			p.seen[path] = p.now()
		}
	}
	return nil
}

// Len returns the number of tracked paths.
func (p *ProcessedSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func (p *ProcessedSet) saveLocked() error {
	if p.ttl > 0 {
		cutoff := p.now().Add(-p.ttl)
		for path, first := range p.seen {
			if first.Before(cutoff) {
				delete(p.seen, path)
			}
		}
	}

	paths := make([]string, 0, len(p.seen))
	for path := range p.seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return &PersistError{Path: p.path, Op: "encode", Cause: err}
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return &PersistError{Path: p.path, Op: "write", Cause: err}
	}
	return nil
}

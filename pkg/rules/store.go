package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Store persists the ordered rule set and the matching user-facing rule
// descriptions. Both files are rewritten in full on every mutation; the
// mutex keeps read-modify-write cycles serialized within the process.
type Store struct {
	path     string
	descPath string
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewStore creates a rule store. path holds the technical rules (JSON
// list of Rule); descPath holds the human-readable descriptions shown by
// the approval layer (JSON list of strings).
func NewStore(path, descPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:     path,
		descPath: descPath,
		logger:   logger.With("component", "rules.store"),
	}
}

// Load returns the stored rules. A missing or malformed file yields an
// empty set, not an error: rules are optional on first run and validity
// of conditions is discovered at evaluation time.
func (s *Store) Load() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []Rule {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read rules file", "path", s.path, "error", err)
		}
		return nil
	}

	var ruleSet []Rule
	if err := json.Unmarshal(data, &ruleSet); err != nil {
		s.logger.Warn("malformed rules file, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return ruleSet
}

// Descriptions returns the user-facing rule descriptions, one per rule.
// Fail-soft like Load.
func (s *Store) Descriptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDescriptionsLocked()
}

func (s *Store) loadDescriptionsLocked() []string {
	data, err := os.ReadFile(s.descPath)
	if err != nil {
		return nil
	}
	var descs []string
	if err := json.Unmarshal(data, &descs); err != nil {
		s.logger.Warn("malformed rule descriptions file, treating as empty",
			"path", s.descPath, "error", err)
		return nil
	}
	return descs
}

// Save replaces the stored rule set.
func (s *Store) Save(ruleSet []Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ruleSet)
}

func (s *Store) saveLocked(ruleSet []Rule) error {
	if ruleSet == nil {
		ruleSet = []Rule{}
	}
	data, err := json.MarshalIndent(ruleSet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file %q: %w", s.path, err)
	}
	return nil
}

func (s *Store) saveDescriptionsLocked(descs []string) error {
	if descs == nil {
		descs = []string{}
	}
	data, err := json.MarshalIndent(descs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rule descriptions: %w", err)
	}
	if err := os.WriteFile(s.descPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rule descriptions file %q: %w", s.descPath, err)
	}
	return nil
}

// Append adds a rule to the end of the stored set, together with its
// user-facing description.
func (s *Store) Append(rule Rule, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ruleSet := append(s.loadLocked(), rule)
	if err := s.saveLocked(ruleSet); err != nil {
		return err
	}

	descs := append(s.loadDescriptionsLocked(), description)
	if err := s.saveDescriptionsLocked(descs); err != nil {
		return err
	}

	s.logger.Info("rule appended",
		"condition", rule.Condition,
		"action", rule.Action.Type,
		"rule_count", len(ruleSet),
	)
	return nil
}

// PopLast removes and returns the most recently appended rule. Rules are
// not index-addressable: the only delete operation is popping the last
// one, matching the append-only authoring flow.
func (s *Store) PopLast() (Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ruleSet := s.loadLocked()
	if len(ruleSet) == 0 {
		return Rule{}, ErrEmpty
	}

	last := ruleSet[len(ruleSet)-1]
	if err := s.saveLocked(ruleSet[:len(ruleSet)-1]); err != nil {
		return Rule{}, err
	}

	descs := s.loadDescriptionsLocked()
	if len(descs) > 0 {
		if err := s.saveDescriptionsLocked(descs[:len(descs)-1]); err != nil {
			return Rule{}, err
		}
	}

	s.logger.Info("rule removed", "condition", last.Condition)
	return last, nil
}

package history

import (
	"context"
	"strings"
)

// NoiseFilter suppresses low-value entries before they reach the store.
// It is plain data passed into Record, not process-wide state, so tests can
// construct whatever rules they need.
type NoiseFilter struct {
	Disabled bool     // Skip filtering entirely
	Exact    []string // Commands dropped on exact match, after trimming
	Prefixes []string // Commands dropped when they start with one of these
}

// DefaultNoiseFilter returns the built-in rules: trivial navigation and
// introspection commands that add nothing to a searchable history.
func DefaultNoiseFilter() NoiseFilter {
	return NoiseFilter{
		Exact:    []string{"ls", "ll", "la", "cd", "cd -", "cd ..", "pwd", "exit", "clear", "history"},
		Prefixes: []string{"cd ~"},
	}
}

// Matches reports whether cmd should be suppressed under the filter rules.
func (f NoiseFilter) Matches(cmd string) bool {
	if f.Disabled {
		return false
	}
	trimmed := strings.TrimSpace(cmd)
	for _, e := range f.Exact {
		if trimmed == e {
			return true
		}
	}
	for _, p := range f.Prefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// RecordResult describes what happened to one live-captured command.
type RecordResult struct {
	ID       int64 // Assigned id when Inserted
	Inserted bool  // A new row was written
	Filtered bool  // The noise filter suppressed the entry
}

// Record appends one live-captured command. The noise filter runs first
// unless force is set. A fingerprint already present in the store is a no-op
// success, so a shell hook firing twice for the same command cannot create
// duplicates. Storage errors are returned to the caller; the CLI hook path
// reports them without failing the shell.
func (s *Store) Record(ctx context.Context, e Entry, force bool, nf NoiseFilter) (RecordResult, error) {
	if !force && nf.Matches(e.Command) {
		return RecordResult{Filtered: true}, nil
	}

	id, inserted, err := s.InsertIfAbsent(ctx, e, Fingerprint(e))
	if err != nil {
		return RecordResult{}, err
	}
	return RecordResult{ID: id, Inserted: inserted}, nil
}

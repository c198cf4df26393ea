package history

import (
	"context"
	"os"
	"strings"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
)

// vacuumThreshold is the free-page ratio above which compaction is
// recommended. Recommendation only; nothing compacts automatically.
const vacuumThreshold = 0.2

// Fragmentation describes allocated versus used space in the database file.
type Fragmentation struct {
	PageCount       int64
	FreePages       int64
	PageSize        int64
	FreeRatio       float64
	RecommendVacuum bool
}

// StoreStats is a read-only snapshot of the store's condition.
type StoreStats struct {
	Entries      int64
	Fingerprints int64
	FileBytes    int64
	Indexes      map[string]bool // Required index name to presence
}

// Check runs SQLite's built-in consistency check. Any result other than a
// clean "ok" is returned as an IntegrityError; the store is never repaired
// automatically.
func (s *Store) Check() error {
	rows, err := s.db.Query(`PRAGMA integrity_check`)
	if err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "integrity check could not run", err)
	}
	defer rows.Close()

	var findings []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return sdbherrors.NewStorageErrorWithCause(s.path, "integrity check could not run", err)
		}
		findings = append(findings, line)
	}
	if err := rows.Err(); err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "integrity check could not run", err)
	}

	if len(findings) == 1 && findings[0] == "ok" {
		return nil
	}
	return sdbherrors.NewIntegrityError(s.path, strings.Join(findings, "; "))
}

// Fragmentation compares allocated and free pages.
func (s *Store) Fragmentation() (Fragmentation, error) {
	var f Fragmentation
	for pragma, dest := range map[string]*int64{
		"page_count":     &f.PageCount,
		"freelist_count": &f.FreePages,
		"page_size":      &f.PageSize,
	} {
		if err := s.db.QueryRow("PRAGMA " + pragma).Scan(dest); err != nil {
			return Fragmentation{}, sdbherrors.NewStorageErrorWithCause(s.path, "cannot read "+pragma, err)
		}
	}
	if f.PageCount > 0 {
		f.FreeRatio = float64(f.FreePages) / float64(f.PageCount)
	}
	f.RecommendVacuum = f.FreeRatio > vacuumThreshold
	return f, nil
}

// MissingIndexes compares the required index set against what exists.
func (s *Store) MissingIndexes() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'index'`)
	if err != nil {
		return nil, sdbherrors.NewStorageErrorWithCause(s.path, "cannot inspect indexes", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, sdbherrors.NewStorageErrorWithCause(s.path, "cannot inspect indexes", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, sdbherrors.NewStorageErrorWithCause(s.path, "cannot inspect indexes", err)
	}

	var missing []string
	for _, idx := range requiredIndexes {
		if !present[idx.Name] {
			missing = append(missing, idx.Name)
		}
	}
	return missing, nil
}

// Stats gathers row counts, on-disk size, and index presence. Read-only.
func (s *Store) Stats() (StoreStats, error) {
	st := StoreStats{Indexes: make(map[string]bool)}

	if err := s.db.QueryRow(`SELECT count(*) FROM history`).Scan(&st.Entries); err != nil {
		return StoreStats{}, sdbherrors.NewStorageErrorWithCause(s.path, "cannot count entries", err)
	}
	if err := s.db.QueryRow(`SELECT count(*) FROM history_hash`).Scan(&st.Fingerprints); err != nil {
		return StoreStats{}, sdbherrors.NewStorageErrorWithCause(s.path, "cannot count fingerprints", err)
	}

	if fi, err := os.Stat(s.path); err == nil {
		st.FileBytes = fi.Size()
	}

	missing, err := s.MissingIndexes()
	if err != nil {
		return StoreStats{}, err
	}
	missingSet := make(map[string]bool, len(missing))
	for _, name := range missing {
		missingSet[name] = true
	}
	for _, idx := range requiredIndexes {
		st.Indexes[idx.Name] = !missingSet[idx.Name]
	}
	return st, nil
}

// Vacuum compacts the database file. Runs only on explicit request.
func (s *Store) Vacuum(ctx context.Context) error {
	err := sdbherrors.Retry(ctx, sdbherrors.DefaultRetryConfig(), func() error {
		_, execErr := s.db.ExecContext(ctx, "VACUUM")
		return execErr
	})
	if err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "vacuum failed", err)
	}
	return nil
}

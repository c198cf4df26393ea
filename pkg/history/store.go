package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
)

// schemaVersion is the on-disk schema generation this build reads and writes.
const schemaVersion = 1

// busyTimeoutMS is how long SQLite waits on another process's write lock
// before returning SQLITE_BUSY. Combined with the retry layer this bounds
// every write; nothing blocks indefinitely.
const busyTimeoutMS = 5000

// indexDef describes one required index.
type indexDef struct {
	Name string
	DDL  string
}

// requiredIndexes is the index set every open store must carry. All query
// paths depend on index-backed filtering, so these are created
// unconditionally on open.
var requiredIndexes = []indexDef{
	{"idx_history_epoch", "CREATE INDEX IF NOT EXISTS idx_history_epoch ON history(epoch)"},
	{"idx_history_session", "CREATE INDEX IF NOT EXISTS idx_history_session ON history(salt, ppid)"},
	{"idx_history_pwd", "CREATE INDEX IF NOT EXISTS idx_history_pwd ON history(pwd)"},
	{"idx_history_hash", "CREATE INDEX IF NOT EXISTS idx_history_hash ON history_hash(hash)"},
}

// Store owns the history database file: schema creation, index lifecycle,
// and all reads and writes. Entries are never updated in place; normal query
// and import paths never delete rows.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database at path, creating the schema
// and any missing indexes. It is idempotent and safe to call repeatedly
// against the same file. It returns a StorageError if the file cannot be
// created or is not a SQLite database, and a SchemaError if the on-disk
// schema generation is newer than this build understands.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, sdbherrors.NewStorageErrorWithCause(path, "cannot create database directory", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(0)", path, busyTimeoutMS)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, sdbherrors.NewStorageErrorWithCause(path, "cannot open database", err)
	}

	// The CLI is single-shot per invocation; a second connection would only
	// invite lock contention against ourselves.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.EnsureIndexes(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
		  id INTEGER PRIMARY KEY AUTOINCREMENT,
		  hist_id INTEGER,
		  cmd TEXT,
		  epoch INTEGER,
		  ppid INTEGER,
		  pwd TEXT,
		  salt INTEGER
		);

		CREATE TABLE IF NOT EXISTS meta (
		  key TEXT PRIMARY KEY,
		  value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS history_hash (
		  hash TEXT PRIMARY KEY,
		  history_id INTEGER
		);
	`)
	if err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "cannot initialize schema", err)
	}

	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO meta(key, value) VALUES('schema_version', ?)`,
		strconv.Itoa(schemaVersion),
	); err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "cannot write schema version", err)
	}

	var found string
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&found); err != nil {
		return sdbherrors.NewStorageErrorWithCause(s.path, "cannot read schema version", err)
	}
	v, err := strconv.Atoi(found)
	if err != nil || v > schemaVersion {
		return sdbherrors.NewSchemaError(s.path, found, strconv.Itoa(schemaVersion))
	}
	return nil
}

// EnsureIndexes creates any missing required indexes. Open calls this
// unconditionally; the health command exposes the same pass for manual
// re-verification.
func (s *Store) EnsureIndexes() error {
	for _, idx := range requiredIndexes {
		if _, err := s.db.Exec(idx.DDL); err != nil {
			return sdbherrors.NewStorageErrorWithCause(s.path, "cannot create index "+idx.Name, err)
		}
	}
	return nil
}

// Append inserts one entry unconditionally and records its fingerprint.
// It returns the store-assigned id.
func (s *Store) Append(ctx context.Context, e Entry) (int64, error) {
	var id int64
	err := sdbherrors.Retry(ctx, sdbherrors.DefaultRetryConfig(), func() error {
		var txErr error
		id, txErr = s.insertTx(e, Fingerprint(e), false)
		return txErr
	})
	if err != nil {
		return 0, sdbherrors.NewStorageErrorWithCause(s.path, "insert failed", err)
	}
	return id, nil
}

// InsertIfAbsent inserts e only if no row with the given fingerprint exists.
// It returns (id, true) on insert and (0, false) when the fingerprint is
// already present. The existence check, the row insert, and
// the fingerprint record are one transaction; they succeed or fail together.
func (s *Store) InsertIfAbsent(ctx context.Context, e Entry, fingerprint string) (int64, bool, error) {
	var (
		id       int64
		inserted bool
	)
	err := sdbherrors.Retry(ctx, sdbherrors.DefaultRetryConfig(), func() error {
		var txErr error
		id, txErr = s.insertTx(e, fingerprint, true)
		inserted = txErr == nil && id != 0
		return txErr
	})
	if err != nil {
		return 0, false, sdbherrors.NewStorageErrorWithCause(s.path, "insert failed", err)
	}
	return id, inserted, nil
}

// insertTx runs one atomic insert. With checkDup set, a pre-existing
// fingerprint makes it return (0, nil) without writing anything.
func (s *Store) insertTx(e Entry, fingerprint string, checkDup bool) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if checkDup {
		var exists int
		if err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM history_hash WHERE hash = ?)`, fingerprint,
		).Scan(&exists); err != nil {
			return 0, err
		}
		if exists == 1 {
			return 0, nil
		}
	}

	res, err := tx.Exec(
		`INSERT INTO history(hist_id, cmd, epoch, ppid, pwd, salt) VALUES (?, ?, ?, ?, ?, ?)`,
		nullableInt64(e.HistID), e.Command, e.Epoch, e.PPID, e.Pwd, e.Salt,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO history_hash(hash, history_id) VALUES (?, ?)`,
		fingerprint, id,
	); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

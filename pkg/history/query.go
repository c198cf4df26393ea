package history

import (
	"database/sql"
	"strings"
	"time"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
)

// Filter is the common filter model shared by every read path.
//
// Session scoping requires both Salt and PPID; requesting it with either
// missing is a FilterError, never a silent match against wrong data. A zero
// salt or pid is a legitimate (if unusual) session identity; "missing" is
// expressed only by a nil pointer.
type Filter struct {
	Days  int   // Trailing window in days, 0 for no time bound
	Since int64 // Absolute epoch lower bound, 0 for none; wins over Days when set

	Here  bool   // Restrict to Dir exactly
	Under bool   // Restrict to Dir and everything beneath it
	Dir   string // Caller-supplied directory for Here/Under

	SessionScoped bool   // Restrict to the invoking shell session
	Salt          *int64 // Session salt, required when SessionScoped
	PPID          *int64 // Parent shell pid, required when SessionScoped

	Limit     int  // Result cap for capped views
	Unlimited bool // Remove the cap entirely; a no-op on uncapped aggregates
}

// Validate checks the filter for conflicts before any I/O happens.
func (f Filter) Validate() error {
	if f.Here && f.Under {
		return sdbherrors.NewFilterError("location", "here and under are mutually exclusive")
	}
	if (f.Here || f.Under) && f.Dir == "" {
		return sdbherrors.NewFilterError("location", "location filtering requires a directory")
	}
	if f.SessionScoped {
		if f.Salt == nil {
			return sdbherrors.NewFilterError("session", "session filtering requires a salt")
		}
		if f.PPID == nil {
			return sdbherrors.NewFilterError("session", "session filtering requires a parent pid")
		}
	}
	return nil
}

// cutoff returns the epoch lower bound implied by the filter, or 0.
func (f Filter) cutoff(now time.Time) int64 {
	if f.Since > 0 {
		return f.Since
	}
	if f.Days > 0 {
		return now.AddDate(0, 0, -f.Days).Unix()
	}
	return 0
}

// where renders the filter's shared conditions. The returned clause always
// starts with "WHERE 1=1" so callers can append freely.
func (f Filter) where(now time.Time) (string, []any) {
	var sb strings.Builder
	var args []any
	sb.WriteString("WHERE 1=1 ")

	if c := f.cutoff(now); c > 0 {
		sb.WriteString("AND epoch >= ? ")
		args = append(args, c)
	}
	if f.SessionScoped {
		sb.WriteString("AND salt = ? AND ppid = ? ")
		args = append(args, *f.Salt, *f.PPID)
	}
	if f.Here {
		sb.WriteString("AND pwd = ? ")
		args = append(args, f.Dir)
	}
	if f.Under {
		sb.WriteString("AND pwd LIKE ? ESCAPE '\\' ")
		args = append(args, EscapeLike(f.Dir)+"%")
	}
	return sb.String(), args
}

// limit returns the effective LIMIT value. SQLite treats a negative limit as
// unlimited.
func (f Filter) limit() int {
	if f.Unlimited {
		return -1
	}
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// DefaultLimit caps capped views when the caller supplies no limit.
const DefaultLimit = 100

// EscapeLike escapes the LIKE wildcards and the escape character itself so a
// user-supplied substring matches literally under ESCAPE '\'.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// List returns entries matching the filter and optional substring pattern in
// chronological order: epoch ascending, id ascending as the tiebreak.
// Synthetic-timestamp imports lean on the id tiebreak, since many of their
// rows share an epoch. The pattern is matched case-insensitively and
// literally; LIKE metacharacters in it are escaped.
func (s *Store) List(f Filter, pattern string, offset int) ([]Entry, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	where, args := f.where(time.Now())
	var sb strings.Builder
	sb.WriteString("SELECT id, hist_id, cmd, epoch, ppid, pwd, salt FROM history ")
	sb.WriteString(where)
	if pattern != "" {
		sb.WriteString("AND cmd LIKE ? ESCAPE '\\' ")
		args = append(args, "%"+EscapeLike(pattern)+"%")
	}
	sb.WriteString("ORDER BY epoch ASC, id ASC LIMIT ? OFFSET ?")
	args = append(args, f.limit(), offset)

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, sdbherrors.Wrap(err, "list query failed")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			histID *int64
		)
		if err := rows.Scan(&e.ID, &histID, &e.Command, &e.Epoch, &e.PPID, &e.Pwd, &e.Salt); err != nil {
			return nil, sdbherrors.Wrap(err, "list scan failed")
		}
		e.HistID = histID
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary returns groups of identical commands with their count and most
// recent execution. With byPwd set, grouping is by (command, directory)
// instead. With prefix set, query matches the start of the command rather
// than any substring. Groups are ordered most recently used first.
func (s *Store) Summary(f Filter, query string, prefix, byPwd bool) ([]SummaryRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	where, args := f.where(time.Now())
	var sb strings.Builder
	sb.WriteString("SELECT max(id), max(epoch), count(*), cmd")
	if byPwd {
		sb.WriteString(", pwd")
	}
	sb.WriteString(" FROM history ")
	sb.WriteString(where)
	if query != "" {
		sb.WriteString("AND cmd LIKE ? ESCAPE '\\' ")
		if prefix {
			args = append(args, EscapeLike(query)+"%")
		} else {
			args = append(args, "%"+EscapeLike(query)+"%")
		}
	}
	sb.WriteString("GROUP BY cmd ")
	if byPwd {
		sb.WriteString(", pwd ")
	}
	sb.WriteString("ORDER BY max(epoch) DESC, max(id) DESC LIMIT ?")
	args = append(args, f.limit())

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, sdbherrors.Wrap(err, "summary query failed")
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var r SummaryRow
		dest := []any{&r.LastID, &r.LastEpoch, &r.Count, &r.Command}
		if byPwd {
			dest = append(dest, &r.Pwd)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, sdbherrors.Wrap(err, "summary scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopCommands returns the most frequently executed commands under the filter,
// most frequent first.
func (s *Store) TopCommands(f Filter) ([]CommandCount, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	where, args := f.where(time.Now())
	q := "SELECT cmd, count(*), max(epoch) FROM history " + where +
		"GROUP BY cmd ORDER BY count(*) DESC, max(epoch) DESC LIMIT ?"
	args = append(args, f.limit())

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, sdbherrors.Wrap(err, "top commands query failed")
	}
	defer rows.Close()

	var out []CommandCount
	for rows.Next() {
		var r CommandCount
		if err := rows.Scan(&r.Command, &r.Count, &r.LastEpoch); err != nil {
			return nil, sdbherrors.Wrap(err, "top commands scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopByDirectory returns the most frequent (directory, command) pairs under
// the filter, most frequent first.
func (s *Store) TopByDirectory(f Filter) ([]DirectoryCount, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	where, args := f.where(time.Now())
	q := "SELECT pwd, cmd, count(*) FROM history " + where +
		"GROUP BY pwd, cmd ORDER BY count(*) DESC LIMIT ?"
	args = append(args, f.limit())

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, sdbherrors.Wrap(err, "directory stats query failed")
	}
	defer rows.Close()

	var out []DirectoryCount
	for rows.Next() {
		var r DirectoryCount
		if err := rows.Scan(&r.Pwd, &r.Command, &r.Count); err != nil {
			return nil, sdbherrors.Wrap(err, "directory stats scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailyCounts buckets executions per local-time day, oldest day first.
// This aggregate carries no cap, so the Unlimited flag is a no-op here.
func (s *Store) DailyCounts(f Filter) ([]DailyCount, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	where, args := f.where(time.Now())
	q := "SELECT date(epoch, 'unixepoch', 'localtime') AS day, count(*) FROM history " + where +
		"GROUP BY day ORDER BY day ASC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, sdbherrors.Wrap(err, "daily stats query failed")
	}
	defer rows.Close()

	var out []DailyCount
	for rows.Next() {
		var r DailyCount
		if err := rows.Scan(&r.Day, &r.Count); err != nil {
			return nil, sdbherrors.Wrap(err, "daily stats scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MostRecent returns the newest entry whose command matches cmd exactly, or
// nil when none exists. Used by the selector preview path.
func (s *Store) MostRecent(cmd string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, hist_id, cmd, epoch, ppid, pwd, salt FROM history
		 WHERE cmd = ? ORDER BY epoch DESC, id DESC LIMIT 1`, cmd)

	var (
		e      Entry
		histID *int64
	)
	err := row.Scan(&e.ID, &histID, &e.Command, &e.Epoch, &e.PPID, &e.Pwd, &e.Salt)
	if err != nil {
		if sdbherrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, sdbherrors.Wrap(err, "preview lookup failed")
	}
	e.HistID = histID
	return &e, nil
}

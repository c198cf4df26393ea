// Package importer reconciles foreign history into an sdbh store: other
// dbhist-compatible SQLite databases, and plain-text shell history files.
// Both paths deduplicate through the same fingerprint scheme as live
// ingestion, so re-importing the same source is always a no-op.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
)

// Result aggregates the outcome of one import source. Every import reports
// all of these; silent partial success is not acceptable.
type Result struct {
	Considered int64 // Rows or lines examined
	Inserted   int64 // New entries written
	Duplicates int64 // Fingerprints already present, skipped
	Malformed  int64 // Rows or lines that could not be parsed, skipped
}

// SourceResult pairs a Result with the source it came from, for multi-source
// invocations.
type SourceResult struct {
	Source string
	Result Result
	Err    error // Set when the source could not be opened or read at all
}

// MergeDB streams the history table of a dbhist-compatible SQLite database
// into dst. The source is opened read-only. Rows whose numeric columns
// cannot be coerced to integers, a known corruption mode in hand-edited
// legacy files, are skipped and counted rather than failing the import.
func MergeDB(ctx context.Context, dst *history.Store, srcPath string) (Result, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", srcPath)
	src, err := sql.Open("sqlite", dsn)
	if err != nil {
		return Result{}, sdbherrors.NewImportErrorWithCause(srcPath, "cannot open source database", err)
	}
	defer src.Close()

	var hasHistory int
	err = src.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'history')`,
	).Scan(&hasHistory)
	if err != nil {
		return Result{}, sdbherrors.NewImportErrorWithCause(srcPath, "cannot read source database", err)
	}
	if hasHistory != 1 {
		return Result{}, sdbherrors.NewImportError(srcPath, "source has no history table")
	}

	// Source order is preserved: rows stream in id order and land in dst in
	// the same relative order.
	rows, err := src.Query(`SELECT hist_id, cmd, epoch, ppid, pwd, salt FROM history ORDER BY id ASC`)
	if err != nil {
		return Result{}, sdbherrors.NewImportErrorWithCause(srcPath, "cannot read source history", err)
	}
	defer rows.Close()

	var res Result
	for rows.Next() {
		var histIDRaw, cmdRaw, epochRaw, ppidRaw, pwdRaw, saltRaw any
		if err := rows.Scan(&histIDRaw, &cmdRaw, &epochRaw, &ppidRaw, &pwdRaw, &saltRaw); err != nil {
			return res, sdbherrors.NewImportErrorWithCause(srcPath, "source row scan failed", err)
		}
		res.Considered++

		cmd, cmdOK := coerceString(cmdRaw)
		pwd, pwdOK := coerceString(pwdRaw)
		epoch, epochOK := coerceInt64(epochRaw)
		ppid, ppidOK := coerceInt64(ppidRaw)
		salt, saltOK := coerceInt64(saltRaw)
		if !cmdOK || !pwdOK || !epochOK || !ppidOK || !saltOK {
			res.Malformed++
			continue
		}

		e := history.Entry{
			Command: cmd,
			Epoch:   epoch,
			PPID:    ppid,
			Pwd:     pwd,
			Salt:    salt,
		}
		// hist_id is allowed to be absent; a corrupt value degrades to absent
		// rather than losing the row.
		if histID, ok := coerceInt64(histIDRaw); ok {
			e.HistID = &histID
		}

		_, inserted, err := dst.InsertIfAbsent(ctx, e, history.Fingerprint(e))
		if err != nil {
			return res, err
		}
		if inserted {
			res.Inserted++
		} else {
			res.Duplicates++
		}
	}
	if err := rows.Err(); err != nil {
		return res, sdbherrors.NewImportErrorWithCause(srcPath, "source read failed", err)
	}
	return res, nil
}

// MergeAll processes each source independently and sequentially. A source
// that fails to open is reported in its SourceResult and does not abort the
// others. The returned error is non-nil only when every source failed.
func MergeAll(ctx context.Context, dst *history.Store, srcPaths []string) ([]SourceResult, error) {
	results := make([]SourceResult, 0, len(srcPaths))
	failures := 0
	for _, p := range srcPaths {
		res, err := MergeDB(ctx, dst, p)
		results = append(results, SourceResult{Source: p, Result: res, Err: err})
		if err != nil {
			failures++
		}
	}
	if len(srcPaths) > 0 && failures == len(srcPaths) {
		return results, sdbherrors.Newf("all %d import sources failed", failures)
	}
	return results, nil
}

// coerceInt64 interprets a scanned column value as an integer, tolerating
// the corruption modes seen in real legacy files: REAL values that are
// integral, and TEXT values where the integer hides in the first or second
// whitespace token, sometimes with a trailing '*' (a shell history marker).
func coerceInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int64:
		return x, true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
		return 0, false
	case []byte:
		return coerceInt64Text(string(x))
	case string:
		return coerceInt64Text(x)
	default:
		return 0, false
	}
}

func coerceInt64Text(s string) (int64, bool) {
	fields := strings.Fields(s)
	for i, tok := range fields {
		if i > 1 {
			break
		}
		if n, err := strconv.ParseInt(strings.TrimSuffix(tok, "*"), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// coerceString accepts TEXT and BLOB columns; anything else is malformed.
func coerceString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}

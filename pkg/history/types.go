// Package history implements the sdbh history store: the SQLite schema and
// index lifecycle, fingerprint-based deduplication, live command ingestion,
// the filtered query layer, and store health checks.
package history

// Entry represents one recorded command execution.
type Entry struct {
	ID      int64  // Store-assigned surrogate key, strictly increasing
	HistID  *int64 // Per-line id from the source shell, nil when unknown
	Command string // Literal command text, stored verbatim
	Epoch   int64  // Execution time, epoch seconds (may be synthetic for imports)
	PPID    int64  // Process id of the owning shell
	Pwd     string // Absolute working directory
	Salt    int64  // Session-scoping value, distinguishes sessions after PID reuse
}

// SummaryRow is one group in a grouped-by-command summary.
type SummaryRow struct {
	LastID    int64 // Highest entry id in the group
	LastEpoch int64 // Most recent execution time in the group
	Count     int64
	Command   string
	Pwd       string // Only populated when grouping by directory as well
}

// CommandCount is one row of a most-frequent-commands aggregate.
type CommandCount struct {
	Command   string
	Count     int64
	LastEpoch int64
}

// DirectoryCount is one row of a per-directory command aggregate.
type DirectoryCount struct {
	Pwd     string
	Command string
	Count   int64
}

// DailyCount is the number of commands executed on one local-time day.
type DailyCount struct {
	Day   string // YYYY-MM-DD in local time
	Count int64
}

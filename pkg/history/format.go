package history

import (
	"fmt"
	"strings"
	"time"
)

// candidateSep separates fields in selector candidate lines. The command is
// always the final field, so a command containing the separator still
// round-trips through ExtractCommand.
const candidateSep = " | "

// FormatTime renders an epoch in the local-time layout used across all
// table output.
func FormatTime(epoch int64) string {
	return time.Unix(epoch, 0).Local().Format("2006-01-02 15:04:05")
}

// CandidateLine renders one summary group as a stable, parseable line for an
// external selector: id, last-used time, count, then the command.
func CandidateLine(r SummaryRow) string {
	return fmt.Sprintf("%6d%s%s%s%6d%s%s",
		r.LastID, candidateSep, FormatTime(r.LastEpoch), candidateSep, r.Count, candidateSep, r.Command)
}

// ExtractCommand recovers the command substring from a selected candidate
// line. Everything after the third separator belongs to the command; lines
// that don't look like candidates are returned trimmed as-is, since the
// selector may hand back arbitrary text.
func ExtractCommand(line string) string {
	parts := strings.SplitN(line, candidateSep, 4)
	if len(parts) == 4 {
		return parts[3]
	}
	return strings.TrimSpace(line)
}

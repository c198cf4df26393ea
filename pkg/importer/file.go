package importer

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
)

// Dialect selects which plain-text history format to parse. The invoker
// always knows the source format, so this is an explicit choice, never
// sniffed from the content.
type Dialect int

const (
	// DialectBash parses bash history written with HISTTIMEFORMAT: a
	// "#<epoch>" comment line followed by the command it timestamps. Files
	// written without HISTTIMEFORMAT have no markers at all.
	DialectBash Dialect = iota

	// DialectZsh parses zsh extended history: ": <epoch>:<duration>;<command>"
	// on every line. The duration is discarded.
	DialectZsh
)

// String returns the dialect's flag spelling.
func (d Dialect) String() string {
	switch d {
	case DialectBash:
		return "bash"
	case DialectZsh:
		return "zsh"
	default:
		return "unknown"
	}
}

// ParseDialect maps a flag value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "bash":
		return DialectBash, nil
	case "zsh":
		return DialectZsh, nil
	default:
		return 0, sdbherrors.Newf("unknown history format %q: must be bash or zsh", s)
	}
}

// ImportFile parses r as shell history in the given dialect and dedup-inserts
// every parsed command into dst. History files carry no per-line directory,
// so pwd applies uniformly to every entry; ppid and salt are zero for
// imported rows, which keeps them out of any session-scoped view.
func ImportFile(ctx context.Context, dst *history.Store, r io.Reader, d Dialect, pwd string) (Result, error) {
	var res Result
	p := newParser(d)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, epoch, ok := p.parse(line)
		if cmd == "" && ok {
			// A consumed timestamp marker, not an entry.
			continue
		}
		res.Considered++
		if !ok {
			res.Malformed++
			continue
		}

		e := history.Entry{
			Command: cmd,
			Epoch:   epoch,
			Pwd:     pwd,
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
	if err := sc.Err(); err != nil {
		return res, sdbherrors.Wrap(err, "reading history file")
	}
	return res, nil
}

// ImportFilePath opens path and imports it via ImportFile.
func ImportFilePath(ctx context.Context, dst *history.Store, path string, d Dialect, pwd string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, sdbherrors.NewImportErrorWithCause(path, "cannot open history file", err)
	}
	defer f.Close()
	return ImportFile(ctx, dst, f, d, pwd)
}

// parser is the per-file state machine behind ImportFile.
//
// Lines without a real timestamp get a synthetic one: a strictly increasing
// counter seeded at the last real epoch seen (or 0 before any). Synthetic
// timestamps preserve relative order among untimestamped lines without
// fabricating precision, never collide with each other, and never sort
// before a real timestamp already seen in the same file.
type parser struct {
	dialect Dialect
	high    int64  // Highest timestamp handed out or seen so far
	pending *int64 // Bash: epoch from a marker line awaiting its command
}

func newParser(d Dialect) *parser {
	return &parser{dialect: d}
}

// parse returns the command and its timestamp for one line. A consumed
// marker line returns ("", 0, true). Malformed lines return ok == false.
func (p *parser) parse(line string) (cmd string, epoch int64, ok bool) {
	switch p.dialect {
	case DialectBash:
		return p.parseBash(line)
	case DialectZsh:
		return p.parseZsh(line)
	default:
		return "", 0, false
	}
}

func (p *parser) parseBash(line string) (string, int64, bool) {
	if ts, ok := bashMarker(line); ok {
		p.pending = &ts
		return "", 0, true
	}

	var epoch int64
	if p.pending != nil {
		epoch = *p.pending
		p.pending = nil
		if epoch > p.high {
			p.high = epoch
		}
	} else {
		epoch = p.synthetic()
	}
	return line, epoch, true
}

func (p *parser) parseZsh(line string) (string, int64, bool) {
	// ": <epoch>:<duration>;<command>"
	rest, found := strings.CutPrefix(line, ": ")
	if !found {
		return "", 0, false
	}
	tsPart, cmdPart, found := strings.Cut(rest, ";")
	if !found {
		return "", 0, false
	}
	epochStr, _, found := strings.Cut(tsPart, ":")
	if !found {
		return "", 0, false
	}
	epoch, err := strconv.ParseInt(epochStr, 10, 64)
	if err != nil || cmdPart == "" {
		return "", 0, false
	}
	if epoch > p.high {
		p.high = epoch
	}
	return cmdPart, epoch, true
}

// synthetic hands out the next placeholder timestamp.
func (p *parser) synthetic() int64 {
	p.high++
	return p.high
}

// bashMarker recognizes a "#<epoch>" timestamp comment line.
func bashMarker(line string) (int64, bool) {
	digits, found := strings.CutPrefix(line, "#")
	if !found || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	ts, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}

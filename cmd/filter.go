package cmd

import (
	"github.com/spf13/cobra"

	"thoreinstein.com/sdbh/pkg/history"
)

// filterFlags carries the common read-path filter flags shared by list,
// summary, stats, and pick.
type filterFlags struct {
	days      int
	since     int64
	here      bool
	under     bool
	dir       string
	session   bool
	limit     int
	unlimited bool
}

// register adds the shared filter flags to a command. defaultLimit of 0
// leaves the cap to the configured default.
func (ff *filterFlags) register(cmd *cobra.Command, defaultLimit int) {
	cmd.Flags().IntVar(&ff.days, "days", 0, "only entries from the trailing N days")
	cmd.Flags().Int64Var(&ff.since, "since", 0, "only entries at or after this epoch (overrides --days)")
	cmd.Flags().BoolVar(&ff.here, "here", false, "only entries from the current directory")
	cmd.Flags().BoolVar(&ff.under, "under", false, "only entries from the current directory and below")
	cmd.Flags().StringVar(&ff.dir, "dir", "", "directory for --here/--under (default: working directory)")
	cmd.Flags().BoolVar(&ff.session, "session", false, "only entries from this shell session (needs SDBH_SALT and SDBH_PPID)")
	cmd.Flags().IntVar(&ff.limit, "limit", defaultLimit, "maximum number of results")
	cmd.Flags().BoolVar(&ff.unlimited, "all", false, "no result cap (a no-op on uncapped aggregates)")
	cmd.MarkFlagsMutuallyExclusive("here", "under")
}

// build turns the flags into a history.Filter. Session identity comes from
// the hook environment; missing values stay nil and are rejected by the
// query layer's validation rather than silently widening the result set.
func (ff *filterFlags) build(configuredLimit int) (history.Filter, error) {
	f := history.Filter{
		Days:      ff.days,
		Since:     ff.since,
		Here:      ff.here,
		Under:     ff.under,
		Limit:     ff.limit,
		Unlimited: ff.unlimited,
	}
	if f.Limit <= 0 {
		f.Limit = configuredLimit
	}
	if ff.here || ff.under {
		dir, err := locationDir(ff.dir)
		if err != nil {
			return history.Filter{}, err
		}
		f.Dir = dir
	}
	if ff.session {
		f.SessionScoped = true
		f.Salt, f.PPID = sessionFromEnv()
	}
	return f, nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/sdbh/pkg/history"
)

var (
	summaryFilter filterFlags
	summaryStarts bool
	summaryByPwd  bool
)

// summaryCmd prints a grouped-by-command summary.
var summaryCmd = &cobra.Command{
	Use:   "summary [query]",
	Short: "Grouped-by-command summary (last seen + count)",
	Long: `Group identical commands and show how often and how recently each ran,
most recently used first.

An optional query restricts the groups to commands containing the given
substring, or starting with it when --starts is set. With --pwd, grouping is
by command and directory.

Examples:
  sdbh summary                    # most recently used commands
  sdbh summary "docker" --limit 5
  sdbh summary "git " --starts
  sdbh summary --pwd --under`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return runSummaryCommand(query)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryFilter.register(summaryCmd, 0)
	summaryCmd.Flags().BoolVar(&summaryStarts, "starts", false, "match the query as a prefix instead of a substring")
	summaryCmd.Flags().BoolVar(&summaryByPwd, "pwd", false, "group by directory as well and show it")
}

func runSummaryCommand(query string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := summaryFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	rows, err := store.Summary(f, query, summaryStarts, summaryByPwd)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if summaryByPwd {
			fmt.Printf("%6d | %s | %6d | %s > %s\n",
				r.LastID, history.FormatTime(r.LastEpoch), r.Count, r.Pwd, r.Command)
		} else {
			fmt.Printf("%6d | %s | %6d | %s\n",
				r.LastID, history.FormatTime(r.LastEpoch), r.Count, r.Command)
		}
	}
	return nil
}

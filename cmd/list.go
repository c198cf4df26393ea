package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
)

var (
	listFilter filterFlags
	listOffset int
	listFormat string
)

// listCmd prints raw chronological history.
var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "Raw chronological history",
	Long: `List history entries oldest first, with the store id as tiebreak for
entries sharing a timestamp.

An optional query restricts output to commands containing the given
substring, matched literally and case-insensitively.

Examples:
  sdbh list                        # recent history
  sdbh list "git push"             # only matching commands
  sdbh list --days 7 --under       # last week, this tree only
  sdbh list --session              # this terminal only
  sdbh list --format json --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		return runListCommand(pattern)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listFilter.register(listCmd, 0)
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "skip this many results")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "output format: table or json")
}

// listEntryJSON is the stable JSON shape for one entry.
type listEntryJSON struct {
	ID    int64  `json:"id"`
	Epoch int64  `json:"epoch"`
	Pwd   string `json:"pwd"`
	Cmd   string `json:"cmd"`
}

func runListCommand(pattern string) error {
	if listFormat != "table" && listFormat != "json" {
		return sdbherrors.Newf("unknown format %q: must be table or json", listFormat)
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := listFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	entries, err := store.List(f, pattern, listOffset)
	if err != nil {
		return err
	}

	if listFormat == "json" {
		out := make([]listEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, listEntryJSON{ID: e.ID, Epoch: e.Epoch, Pwd: e.Pwd, Cmd: e.Command})
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	for _, e := range entries {
		fmt.Printf("%6d | %s | %s | %s\n", e.ID, history.FormatTime(e.Epoch), e.Pwd, e.Command)
	}
	return nil
}

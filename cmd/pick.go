package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
	"thoreinstein.com/sdbh/pkg/ui"
)

var pickFilter filterFlags

// pickCmd runs the interactive selector over summarized history.
var pickCmd = &cobra.Command{
	Use:   "pick [query]",
	Short: "Pick a command interactively (requires fzf)",
	Long: `Feed the grouped summary into fzf, one candidate per line, and print the
selected command to stdout.

Typical use is a shell widget binding:
  cmd="$(sdbh pick)" && print -z -- "$cmd"

Examples:
  sdbh pick
  sdbh pick "docker" --days 30
  sdbh pick --session`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return runPickCommand(query)
	},
}

// previewCmd resolves a selected candidate line back to a full entry. It is
// wired as the selector's preview hook and accepts arbitrary selected lines.
var previewCmd = &cobra.Command{
	Use:    "preview LINE",
	Short:  "Show details for a selected candidate line",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreviewCommand(args[0])
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(previewCmd)
	pickFilter.register(pickCmd, 0)
}

func runPickCommand(query string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := pickFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	rows, err := store.Summary(f, query, false, false)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, history.CandidateLine(r))
	}

	selected, err := ui.Select(lines)
	if err != nil {
		if sdbherrors.Is(err, ui.ErrCancelled) {
			return nil
		}
		return err
	}

	fmt.Println(history.ExtractCommand(selected))
	return nil
}

func runPreviewCommand(line string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cmd := history.ExtractCommand(line)
	e, err := store.MostRecent(cmd)
	if err != nil {
		return err
	}
	if e == nil {
		fmt.Println(cmd)
		return nil
	}
	fmt.Printf("command: %s\nlast run: %s\ndirectory: %s\nsession: salt=%d ppid=%d\n",
		e.Command, history.FormatTime(e.Epoch), e.Pwd, e.Salt, e.PPID)
	return nil
}

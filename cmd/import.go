package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/importer"
)

var (
	importFromPaths  []string
	importTo         string
	importFileFormat string
	importFilePwd    string
)

// importCmd groups the two import paths.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import foreign history into the database",
}

var importDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Merge other sdbh/dbhist-compatible SQLite databases",
	Long: `Merge the history tables of one or more compatible SQLite databases into
this one. Rows already present (by fingerprint) are skipped, and rows with
corrupted numeric columns are skipped and counted instead of failing the
import. Sources are processed independently; one unreadable source does not
abort the others.

Examples:
  sdbh import db --from ~/.dbhist.sqlite
  sdbh import db --from old1.sqlite --from old2.sqlite --to merged.sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportDBCommand(cmd)
	},
}

var importFileCmd = &cobra.Command{
	Use:   "file PATH",
	Short: "Import a plain-text bash or zsh history file",
	Long: `Parse a shell history file and merge its commands.

Bash files may carry "#<epoch>" timestamp markers (HISTTIMEFORMAT); lines
without one get a synthetic, strictly increasing timestamp that preserves
their relative order. Zsh extended history (": <epoch>:<dur>;<cmd>") carries
its own timestamps; malformed lines are skipped and counted.

History files carry no directory information, so every imported entry gets
the directory given by --pwd (default: the current directory).

Examples:
  sdbh import file ~/.bash_history --format bash
  sdbh import file ~/.zsh_history --format zsh --pwd /home/me`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportFileCommand(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importDBCmd)
	importCmd.AddCommand(importFileCmd)

	importDBCmd.Flags().StringArrayVar(&importFromPaths, "from", nil, "source database path (repeatable)")
	importDBCmd.Flags().StringVar(&importTo, "to", "", "destination database (default: the configured database)")
	_ = importDBCmd.MarkFlagRequired("from")

	importFileCmd.Flags().StringVar(&importFileFormat, "format", "", "history file format: bash or zsh")
	importFileCmd.Flags().StringVar(&importFilePwd, "pwd", "", "directory recorded for every imported entry (default: current directory)")
	_ = importFileCmd.MarkFlagRequired("format")
}

func runImportDBCommand(cmd *cobra.Command) error {
	if importTo != "" {
		dbPath = importTo
	}
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := importer.MergeAll(cmd.Context(), store, importFromPaths)
	var total importer.Result
	for _, sr := range results {
		if sr.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", sr.Source, sdbherrors.FormatUserError(sr.Err))
			continue
		}
		reportImport(sr.Source, sr.Result)
		total.Considered += sr.Result.Considered
		total.Inserted += sr.Result.Inserted
		total.Duplicates += sr.Result.Duplicates
		total.Malformed += sr.Result.Malformed
	}
	if len(results) > 1 {
		reportImport("total", total)
	}
	return err
}

func runImportFileCommand(cmd *cobra.Command, path string) error {
	dialect, err := importer.ParseDialect(importFileFormat)
	if err != nil {
		return err
	}
	pwd, err := locationDir(importFilePwd)
	if err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := importer.ImportFilePath(cmd.Context(), store, path, dialect, pwd)
	if err != nil {
		return err
	}
	reportImport(path, res)
	return nil
}

// reportImport prints the mandatory per-source accounting: how many rows
// were inserted, skipped as duplicates, and skipped as malformed.
func reportImport(source string, r importer.Result) {
	fmt.Fprintf(os.Stderr, "%s: considered %d, inserted %d, duplicates %d, malformed %d\n",
		source, r.Considered, r.Inserted, r.Duplicates, r.Malformed)
}

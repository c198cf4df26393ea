package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
)

var (
	logCommand string
	logEpoch   int64
	logPPID    int64
	logPwd     string
	logSalt    int64
	logHistID  int64
	logForce   bool
	logStrict  bool
)

// logCmd records one command execution. This is the shell hook entry point.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record one command execution (intended for shell integration)",
	Long: `Record a single command execution into the history database.

The shell hook invokes this once per executed command. Noise filtering
suppresses trivial commands unless --force is set. Recording the same
command twice with identical identity fields is a no-op, so a hook that
fires twice cannot create duplicates.

Storage problems are reported on stderr but do not fail the invoking shell
unless --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logCommand, "cmd", "", "command text to record")
	logCmd.Flags().Int64Var(&logEpoch, "epoch", 0, "execution time as epoch seconds (default: now)")
	logCmd.Flags().Int64Var(&logPPID, "ppid", 0, "parent shell pid (default: this process's parent)")
	logCmd.Flags().StringVar(&logPwd, "pwd", "", "working directory (default: current directory)")
	logCmd.Flags().Int64Var(&logSalt, "salt", 0, "session salt from the shell hook")
	logCmd.Flags().Int64Var(&logHistID, "hist-id", 0, "history line id from the source shell")
	logCmd.Flags().BoolVar(&logForce, "force", false, "bypass the noise filter")
	logCmd.Flags().BoolVar(&logStrict, "strict", false, "fail on storage errors instead of swallowing them")
	_ = logCmd.MarkFlagRequired("cmd")
}

func runLogCommand(cmd *cobra.Command) error {
	err := recordEntry(cmd)
	if err == nil {
		return nil
	}
	if logStrict {
		return err
	}
	// Hook mode: the shell must never see a fatal error from its own prompt
	// hook. Report and move on.
	fmt.Fprintln(os.Stderr, "sdbh:", sdbherrors.FormatUserError(err))
	return nil
}

func recordEntry(cmd *cobra.Command) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	e := history.Entry{
		Command: logCommand,
		Epoch:   logEpoch,
		PPID:    logPPID,
		Pwd:     logPwd,
		Salt:    logSalt,
	}
	if e.Epoch == 0 {
		e.Epoch = time.Now().Unix()
	}
	if !cmd.Flags().Changed("ppid") {
		e.PPID = int64(os.Getppid())
	}
	if e.Pwd == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			e.Pwd = wd
		}
	}
	if cmd.Flags().Changed("hist-id") {
		histID := logHistID
		e.HistID = &histID
	}

	res, err := store.Record(cmd.Context(), e, logForce, cfg.NoiseFilter())
	if err != nil {
		return err
	}
	if verbose {
		switch {
		case res.Filtered:
			fmt.Fprintln(os.Stderr, "filtered:", logCommand)
		case !res.Inserted:
			fmt.Fprintln(os.Stderr, "duplicate:", logCommand)
		default:
			fmt.Fprintf(os.Stderr, "recorded %d: %s\n", res.ID, logCommand)
		}
	}
	return nil
}

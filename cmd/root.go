// Package cmd implements the sdbh command line interface.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"thoreinstein.com/sdbh/pkg/config"
	sdbherrors "thoreinstein.com/sdbh/pkg/errors"
	"thoreinstein.com/sdbh/pkg/history"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdbh",
	Short: "Shell DB History - searchable shell history in SQLite",
	Long: `sdbh records every shell command into a local SQLite database and serves
deduplicated, filterable views over it: chronological listings, grouped
summaries, usage statistics, and an interactive picker.

Foreign history can be merged in from other sdbh/dbhist databases or imported
from plain-text bash and zsh history files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", sdbherrors.FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		if err := config.Init(cfgFile); err != nil {
			cobra.CheckErr(err)
		}
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/sdbh/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the history database (default is $HOME/.sdbh.sqlite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig returns the effective configuration.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// resolveDBPath applies the --db override on top of the configured path.
func resolveDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.Database.Path
}

// openStore loads configuration and opens the history database.
func openStore() (*history.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, sdbherrors.Wrap(err, "failed to load configuration")
	}
	path := resolveDBPath(cfg)
	if verbose {
		fmt.Fprintln(os.Stderr, "db:", path)
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// sessionFromEnv reads the session identity the shell hook exports. The core
// never reads the environment itself; values cross into it as plain
// parameters. Unset or unparseable values stay nil, which the query layer
// rejects with a filter conflict when session scoping is requested.
func sessionFromEnv() (salt, ppid *int64) {
	if v, err := strconv.ParseInt(os.Getenv("SDBH_SALT"), 10, 64); err == nil {
		salt = &v
	}
	if v, err := strconv.ParseInt(os.Getenv("SDBH_PPID"), 10, 64); err == nil {
		ppid = &v
	}
	return salt, ppid
}

// locationDir resolves the directory used by --here/--under: the explicit
// --dir override when given, the working directory otherwise.
func locationDir(dirFlag string) (string, error) {
	if dirFlag != "" {
		return dirFlag, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", sdbherrors.Wrap(err, "cannot determine working directory")
	}
	return wd, nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/sdbh/pkg/history"
)

var (
	statsTopFilter   filterFlags
	statsDirsFilter  filterFlags
	statsDailyFilter filterFlags
)

// statsCmd groups the aggregate views.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Usage statistics over the history",
}

var statsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Most frequent commands",
	Long: `Show the most frequently executed commands, optionally restricted to a
trailing time window.

Examples:
  sdbh stats top --days 30
  sdbh stats top --limit 10 --under`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatsTopCommand()
	},
}

var statsDirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Most frequent commands per directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatsDirsCommand()
	},
}

var statsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Commands executed per day (local time)",
	Long: `Bucket executions per local-time day, oldest day first.

This view has no result cap, so --all changes nothing here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatsDailyCommand()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsTopCmd)
	statsCmd.AddCommand(statsDirsCmd)
	statsCmd.AddCommand(statsDailyCmd)

	statsTopFilter.register(statsTopCmd, 20)
	statsDirsFilter.register(statsDirsCmd, 20)
	statsDailyFilter.register(statsDailyCmd, 0)
}

func runStatsTopCommand() error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := statsTopFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	rows, err := store.TopCommands(f)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%6d | %s | %s\n", r.Count, history.FormatTime(r.LastEpoch), r.Command)
	}
	return nil
}

func runStatsDirsCommand() error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := statsDirsFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	rows, err := store.TopByDirectory(f)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%6d | %s > %s\n", r.Count, r.Pwd, r.Command)
	}
	return nil
}

func runStatsDailyCommand() error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := statsDailyFilter.build(cfg.Query.DefaultLimit)
	if err != nil {
		return err
	}

	rows, err := store.DailyCounts(f)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%s | %6d\n", r.Day, r.Count)
	}
	return nil
}

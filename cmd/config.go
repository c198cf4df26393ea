package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thoreinstein.com/sdbh/pkg/config"
)

var configInitPath string

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sdbh configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with the current effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInitCommand()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "where to write the config file (default: ~/.config/sdbh/config.toml)")
}

func runConfigInitCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := configInitPath
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := config.WriteStarter(cfg, path); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

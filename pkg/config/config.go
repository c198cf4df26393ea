// Package config loads sdbh configuration from file and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"thoreinstein.com/sdbh/pkg/history"
)

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Query    QueryConfig    `mapstructure:"query"`
}

// DatabaseConfig holds the history database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // Database file (default: ~/.sdbh.sqlite)
}

// FilterConfig holds the noise filter rules applied before ingestion.
type FilterConfig struct {
	Disabled       bool     `mapstructure:"disabled"`        // Turn off noise filtering entirely
	IgnoreExact    []string `mapstructure:"ignore_exact"`    // Extra exact-match suppressions
	IgnorePrefixes []string `mapstructure:"ignore_prefixes"` // Extra prefix-match suppressions
	NoDefaults     bool     `mapstructure:"no_defaults"`     // Drop the built-in suppression rules
}

// QueryConfig holds read-path defaults.
type QueryConfig struct {
	DefaultLimit int `mapstructure:"default_limit"` // Result cap when no --limit is given
}

// Init wires viper to the config file and environment. When cfgFile is
// empty, ~/.config/sdbh/config.toml is used. A missing config file is not an
// error; defaults apply.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get home directory")
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "sdbh"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SDBH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.Query.DefaultLimit < 0 {
		return errors.Newf("query.default_limit must be non-negative, got %d", c.Query.DefaultLimit)
	}
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	return nil
}

// NoiseFilter builds the ingestion noise filter from the built-in defaults
// plus any configured additions.
func (c *Config) NoiseFilter() history.NoiseFilter {
	nf := history.NoiseFilter{Disabled: c.Filter.Disabled}
	if !c.Filter.NoDefaults {
		def := history.DefaultNoiseFilter()
		nf.Exact = append(nf.Exact, def.Exact...)
		nf.Prefixes = append(nf.Prefixes, def.Prefixes...)
	}
	nf.Exact = append(nf.Exact, c.Filter.IgnoreExact...)
	nf.Prefixes = append(nf.Prefixes, c.Filter.IgnorePrefixes...)
	return nf
}

// setDefaults sets default configuration values.
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home dir can't be determined
		homeDir = "."
	}

	viper.SetDefault("database.path", filepath.Join(homeDir, ".sdbh.sqlite"))
	viper.SetDefault("query.default_limit", history.DefaultLimit)
}

// expandPaths expands a leading ~ in configured paths.
func expandPaths(config *Config) error {
	expanded, err := expandPath(config.Database.Path)
	if err != nil {
		return err
	}
	config.Database.Path = expanded
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

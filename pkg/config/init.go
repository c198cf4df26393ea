package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with toml tags for writing a starter file.
// Unmarshalling stays with viper; this type exists only for WriteStarter.
type fileConfig struct {
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Filter struct {
		Disabled       bool     `toml:"disabled"`
		IgnoreExact    []string `toml:"ignore_exact"`
		IgnorePrefixes []string `toml:"ignore_prefixes"`
	} `toml:"filter"`
	Query struct {
		DefaultLimit int `toml:"default_limit"`
	} `toml:"query"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".config", "sdbh", "config.toml"), nil
}

// WriteStarter writes a starter config file with the current effective
// settings at path. It refuses to overwrite an existing file.
func WriteStarter(cfg *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists at %s", path)
	}

	var fc fileConfig
	fc.Database.Path = cfg.Database.Path
	fc.Filter.Disabled = cfg.Filter.Disabled
	fc.Filter.IgnoreExact = cfg.Filter.IgnoreExact
	fc.Filter.IgnorePrefixes = cfg.Filter.IgnorePrefixes
	fc.Query.DefaultLimit = cfg.Query.DefaultLimit

	data, err := toml.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "failed to render config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

package cmd

import (
	"os"
	"strings"
	"testing"

	"thoreinstein.com/sdbh/pkg/config"
)

func TestRootCommandStructure(t *testing.T) {
	// Not parallel - accesses global rootCmd
	cmd := rootCmd

	if cmd.Use != "sdbh" {
		t.Errorf("root command Use = %q, want %q", cmd.Use, "sdbh")
	}

	if cmd.Short == "" {
		t.Error("root command should have Short description")
	}

	if cmd.Long == "" {
		t.Error("root command should have Long description")
	}

	expectedKeywords := []string{"shell", "SQLite", "history"}
	for _, keyword := range expectedKeywords {
		if !strings.Contains(cmd.Long, keyword) {
			t.Errorf("root command Long description should mention %q", keyword)
		}
	}

	if !cmd.SilenceUsage {
		t.Error("root command should silence usage on error")
	}
	if !cmd.SilenceErrors {
		t.Error("root command should silence cobra's own error printing")
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	// Not parallel - accesses global rootCmd
	cmd := rootCmd

	configFlag := cmd.PersistentFlags().Lookup("config")
	if configFlag == nil {
		t.Fatal("root command should have --config persistent flag")
	}
	if configFlag.Shorthand != "C" {
		t.Errorf("--config shorthand = %q, want %q", configFlag.Shorthand, "C")
	}
	if !strings.Contains(configFlag.Usage, "$HOME/.config/sdbh") {
		t.Error("--config usage should mention default config location")
	}

	dbFlag := cmd.PersistentFlags().Lookup("db")
	if dbFlag == nil {
		t.Fatal("root command should have --db persistent flag")
	}
	if dbFlag.DefValue != "" {
		t.Errorf("--db default should be empty, got %q", dbFlag.DefValue)
	}

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	if verboseFlag == nil {
		t.Fatal("root command should have --verbose persistent flag")
	}
	if verboseFlag.Shorthand != "v" {
		t.Errorf("--verbose shorthand = %q, want %q", verboseFlag.Shorthand, "v")
	}
	if verboseFlag.DefValue != "false" {
		t.Errorf("--verbose default = %q, want %q", verboseFlag.DefValue, "false")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	// Not parallel - accesses global rootCmd
	registered := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		name := strings.Split(sub.Use, " ")[0]
		registered[name] = true
	}

	expected := []string{"log", "list", "summary", "stats", "import", "health", "pick", "shell", "config"}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("root command should have %q subcommand registered", name)
		}
	}
}

func TestSessionFromEnv(t *testing.T) {
	t.Setenv("SDBH_SALT", "12345")
	t.Setenv("SDBH_PPID", "678")

	salt, ppid := sessionFromEnv()
	if salt == nil || *salt != 12345 {
		t.Errorf("salt = %v, want 12345", salt)
	}
	if ppid == nil || *ppid != 678 {
		t.Errorf("ppid = %v, want 678", ppid)
	}
}

func TestSessionFromEnv_ZeroValues(t *testing.T) {
	// Zero is a legitimate identity value, distinct from unset.
	t.Setenv("SDBH_SALT", "0")
	t.Setenv("SDBH_PPID", "0")

	salt, ppid := sessionFromEnv()
	if salt == nil || *salt != 0 {
		t.Errorf("salt = %v, want explicit 0", salt)
	}
	if ppid == nil || *ppid != 0 {
		t.Errorf("ppid = %v, want explicit 0", ppid)
	}
}

func TestSessionFromEnv_UnsetAndGarbage(t *testing.T) {
	t.Setenv("SDBH_SALT", "")
	t.Setenv("SDBH_PPID", "not-a-number")

	salt, ppid := sessionFromEnv()
	if salt != nil {
		t.Errorf("unset SDBH_SALT should yield nil, got %d", *salt)
	}
	if ppid != nil {
		t.Errorf("unparseable SDBH_PPID should yield nil, got %d", *ppid)
	}
}

func TestResolveDBPath(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = "/configured/path.sqlite"

	oldDBPath := dbPath
	defer func() { dbPath = oldDBPath }()

	dbPath = ""
	if got := resolveDBPath(cfg); got != "/configured/path.sqlite" {
		t.Errorf("resolveDBPath() = %q, want configured path", got)
	}

	dbPath = "/flag/override.sqlite"
	if got := resolveDBPath(cfg); got != "/flag/override.sqlite" {
		t.Errorf("resolveDBPath() = %q, want --db override", got)
	}
}

func TestLocationDir(t *testing.T) {
	got, err := locationDir("/explicit/dir")
	if err != nil {
		t.Fatalf("locationDir() error: %v", err)
	}
	if got != "/explicit/dir" {
		t.Errorf("locationDir() = %q, want explicit flag value", got)
	}

	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	got, err = locationDir("")
	if err != nil {
		t.Fatalf("locationDir() error: %v", err)
	}
	if got == "" {
		t.Error("locationDir() with no flag should fall back to the working directory")
	}
}

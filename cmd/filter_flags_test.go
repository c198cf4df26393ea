package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func newFilterTestCmd(defaultLimit int) (*cobra.Command, *filterFlags) {
	cmd := &cobra.Command{Use: "probe", Run: func(cmd *cobra.Command, args []string) {}}
	ff := &filterFlags{}
	ff.register(cmd, defaultLimit)
	return cmd, ff
}

func TestFilterFlagsRegistered(t *testing.T) {
	cmd, _ := newFilterTestCmd(0)

	expectedFlags := []struct {
		name     string
		defValue string
	}{
		{"days", "0"},
		{"since", "0"},
		{"here", "false"},
		{"under", "false"},
		{"dir", ""},
		{"session", "false"},
		{"limit", "0"},
		{"all", "false"},
	}

	for _, expected := range expectedFlags {
		flag := cmd.Flags().Lookup(expected.name)
		if flag == nil {
			t.Errorf("filter flags should include --%s", expected.name)
			continue
		}
		if flag.DefValue != expected.defValue {
			t.Errorf("--%s default = %q, want %q", expected.name, flag.DefValue, expected.defValue)
		}
	}
}

func TestFilterFlagsDefaultLimit(t *testing.T) {
	cmd, _ := newFilterTestCmd(20)
	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("--limit flag missing")
	}
	if flag.DefValue != "20" {
		t.Errorf("--limit default = %q, want %q", flag.DefValue, "20")
	}
}

func TestFilterFlagsHereUnderMutuallyExclusive(t *testing.T) {
	cmd, _ := newFilterTestCmd(0)
	cmd.SetArgs([]string{"--here", "--under"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("--here together with --under should be rejected")
	}
}

func TestFilterFlagsBuild_LimitFallsBackToConfigured(t *testing.T) {
	ff := &filterFlags{}
	f, err := ff.build(42)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if f.Limit != 42 {
		t.Errorf("Limit = %d, want configured fallback 42", f.Limit)
	}

	ff.limit = 7
	f, err = ff.build(42)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if f.Limit != 7 {
		t.Errorf("Limit = %d, want explicit 7", f.Limit)
	}
}

func TestFilterFlagsBuild_HereResolvesDir(t *testing.T) {
	ff := &filterFlags{here: true, dir: "/somewhere"}
	f, err := ff.build(0)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if !f.Here {
		t.Error("Here should be set")
	}
	if f.Dir != "/somewhere" {
		t.Errorf("Dir = %q, want %q", f.Dir, "/somewhere")
	}
}

func TestFilterFlagsBuild_NoLocationMeansNoDir(t *testing.T) {
	ff := &filterFlags{dir: "/somewhere"}
	f, err := ff.build(0)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if f.Dir != "" {
		t.Errorf("Dir = %q, want empty without --here/--under", f.Dir)
	}
}

func TestFilterFlagsBuild_SessionPullsEnvIdentity(t *testing.T) {
	t.Setenv("SDBH_SALT", "11")
	t.Setenv("SDBH_PPID", "22")

	ff := &filterFlags{session: true}
	f, err := ff.build(0)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if !f.SessionScoped {
		t.Error("SessionScoped should be set")
	}
	if f.Salt == nil || *f.Salt != 11 {
		t.Errorf("Salt = %v, want 11", f.Salt)
	}
	if f.PPID == nil || *f.PPID != 22 {
		t.Errorf("PPID = %v, want 22", f.PPID)
	}
}

func TestFilterFlagsBuild_SessionWithMissingEnvStaysNil(t *testing.T) {
	// build() does not validate; the query layer rejects the nil identity
	// as a filter conflict so the user gets one consistent error.
	t.Setenv("SDBH_SALT", "")
	t.Setenv("SDBH_PPID", "")

	ff := &filterFlags{session: true}
	f, err := ff.build(0)
	if err != nil {
		t.Fatalf("build() error: %v", err)
	}
	if !f.SessionScoped {
		t.Error("SessionScoped should be set even with missing identity")
	}
	if f.Salt != nil || f.PPID != nil {
		t.Error("missing env identity should stay nil for the query layer to reject")
	}
	if validateErr := f.Validate(); validateErr == nil {
		t.Error("Validate() should reject session scoping without identity")
	}
}

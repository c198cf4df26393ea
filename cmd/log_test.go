package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestLogCommandFlags(t *testing.T) {
	cmd := logCmd

	expectedFlags := []struct {
		name     string
		defValue string
	}{
		{"cmd", ""},
		{"epoch", "0"},
		{"ppid", "0"},
		{"pwd", ""},
		{"salt", "0"},
		{"hist-id", "0"},
		{"force", "false"},
		{"strict", "false"},
	}

	for _, expected := range expectedFlags {
		flag := cmd.Flags().Lookup(expected.name)
		if flag == nil {
			t.Errorf("log command should have --%s flag", expected.name)
			continue
		}
		if flag.DefValue != expected.defValue {
			t.Errorf("--%s default = %q, want %q", expected.name, flag.DefValue, expected.defValue)
		}
	}
}

func TestLogCommandRequiresCmd(t *testing.T) {
	flag := logCmd.Flags().Lookup("cmd")
	if flag == nil {
		t.Fatal("log command should have --cmd flag")
	}
	if _, required := flag.Annotations[cobra.BashCompOneRequiredFlag]; !required {
		t.Error("--cmd should be a required flag")
	}
}

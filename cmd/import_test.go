package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestImportCommandStructure(t *testing.T) {
	registered := make(map[string]bool)
	for _, sub := range importCmd.Commands() {
		name := strings.Split(sub.Use, " ")[0]
		registered[name] = true
	}

	if !registered["db"] {
		t.Error("import command should have db subcommand")
	}
	if !registered["file"] {
		t.Error("import command should have file subcommand")
	}
}

func TestImportDBCommandFlags(t *testing.T) {
	fromFlag := importDBCmd.Flags().Lookup("from")
	if fromFlag == nil {
		t.Fatal("import db should have --from flag")
	}
	if fromFlag.Value.Type() != "stringArray" {
		t.Errorf("--from should be repeatable (stringArray), got %q", fromFlag.Value.Type())
	}
	if _, required := fromFlag.Annotations[cobra.BashCompOneRequiredFlag]; !required {
		t.Error("--from should be a required flag")
	}

	if importDBCmd.Flags().Lookup("to") == nil {
		t.Error("import db should have --to flag")
	}
}

func TestImportFileCommandFlags(t *testing.T) {
	formatFlag := importFileCmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("import file should have --format flag")
	}
	if _, required := formatFlag.Annotations[cobra.BashCompOneRequiredFlag]; !required {
		t.Error("--format should be a required flag")
	}

	if importFileCmd.Flags().Lookup("pwd") == nil {
		t.Error("import file should have --pwd flag")
	}
}

func TestImportFileCommandRequiresPath(t *testing.T) {
	if err := importFileCmd.Args(importFileCmd, []string{}); err == nil {
		t.Error("import file without a path should be rejected")
	}
	if err := importFileCmd.Args(importFileCmd, []string{"/tmp/history"}); err != nil {
		t.Errorf("import file with one path should be accepted: %v", err)
	}
}

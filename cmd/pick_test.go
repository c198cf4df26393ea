package cmd

import (
	"testing"
)

func TestPickCommandFlags(t *testing.T) {
	for _, name := range []string{"days", "since", "here", "under", "session", "limit", "all"} {
		if pickCmd.Flags().Lookup(name) == nil {
			t.Errorf("pick command should have --%s flag", name)
		}
	}
}

func TestPreviewCommandIsHidden(t *testing.T) {
	if !previewCmd.Hidden {
		t.Error("preview command should be hidden; it exists for the selector's preview hook")
	}
	if err := previewCmd.Args(previewCmd, []string{}); err == nil {
		t.Error("preview without a line should be rejected")
	}
}

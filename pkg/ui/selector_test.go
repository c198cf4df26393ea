package ui

import (
	"errors"
	"testing"
)

func TestSelect_NoCandidates(t *testing.T) {
	_, err := Select(nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Select(nil) error = %v, want ErrNoCandidates", err)
	}

	_, err = Select([]string{})
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Select(empty) error = %v, want ErrNoCandidates", err)
	}
}

func TestSelect_FzfMissing(t *testing.T) {
	// With an empty PATH the selector binary cannot be found; the error must
	// say so rather than hanging or panicking.
	t.Setenv("PATH", t.TempDir())

	_, err := Select([]string{"candidate"})
	if err == nil {
		t.Fatal("Select should fail when fzf is not installed")
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, ErrNoCandidates) {
		t.Errorf("missing fzf should be its own error, got %v", err)
	}
}

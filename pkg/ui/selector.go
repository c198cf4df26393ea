// Package ui holds the boundary to the external interactive selector.
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrCancelled is returned when the user cancels the selection
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoCandidates is returned when there is nothing to select from
	ErrNoCandidates = errors.New("no candidates to select from")
)

// Select feeds one candidate per line to fzf and returns the line the user
// picked. The selector receives candidates on stdin and hands the selection
// back on stdout; sdbh only guarantees the lines are stable and parseable,
// everything interactive belongs to the selector process.
func Select(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", ErrNoCandidates
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", fmt.Errorf("fzf not found in PATH: %w", err)
	}

	var input bytes.Buffer
	for _, l := range lines {
		input.WriteString(l)
		input.WriteString("\n")
	}

	// #nosec G204 - fzf binary is looked up in PATH, no user-controlled arguments are passed directly
	cmd := exec.Command(fzfPath,
		"--height=40%",
		"--layout=reverse",
		"--no-sort",
		"--cycle",
	)
	cmd.Stdin = &input
	cmd.Stderr = os.Stderr // fzf uses stderr for UI rendering
	var output bytes.Buffer
	cmd.Stdout = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// fzf returns 130 on cancellation (ESC, Ctrl-C, Ctrl-G)
			if exitErr.ExitCode() == 130 {
				return "", ErrCancelled
			}
		}
		return "", fmt.Errorf("fzf failed: %w", err)
	}

	selected := strings.TrimRight(output.String(), "\n")
	if strings.TrimSpace(selected) == "" {
		return "", ErrCancelled
	}
	return selected, nil
}

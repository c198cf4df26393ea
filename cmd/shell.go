package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	shellBash      bool
	shellZsh       bool
	shellIntercept bool
)

// shellCmd prints shell integration snippets.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Print shell integration snippets",
	Long: `Print the hook snippet to paste into your shell rc file.

Hook mode records each command from the prompt hook after it runs. Intercept
mode (--intercept) records from a pre-execution trap instead, which is more
invasive but also catches commands that never return.

With neither --bash nor --zsh, both snippets are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShellCommand()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().BoolVar(&shellBash, "bash", false, "print bash integration")
	shellCmd.Flags().BoolVar(&shellZsh, "zsh", false, "print zsh integration")
	shellCmd.Flags().BoolVar(&shellIntercept, "intercept", false, "print intercept-style integration (more invasive)")
}

func runShellCommand() error {
	wantBash := shellBash || !shellZsh
	wantZsh := shellZsh || !shellBash

	if shellIntercept {
		if wantBash {
			fmt.Println(bashInterceptSnippet)
		}
		if wantZsh {
			fmt.Println(zshInterceptSnippet)
		}
		return nil
	}

	if wantBash {
		fmt.Println(bashHookSnippet)
	}
	if wantZsh {
		fmt.Println(zshHookSnippet)
	}
	return nil
}

const bashHookSnippet = `# sdbh bash hook mode
# Add to ~/.bashrc (and ensure HISTTIMEFORMAT="%s ")

export SDBH_SALT=${RANDOM}
export SDBH_PPID=$PPID

__sdbh_prompt() {
  [[ -n "${COMP_LINE}" ]] && return

  local line
  line="$(history 1)"

  # Parse: <hist_id> <epoch> <cmd...>
  local hist_id epoch cmd
  hist_id="${line%% *}";
  line="${line#* }"
  epoch="${line%% *}";
  cmd="${line#* }"

  [[ -z "${cmd}" ]] && return
  [[ ! "${epoch}" =~ ^[0-9]+$ ]] && return

  sdbh log --hist-id "${hist_id}" --epoch "${epoch}" --ppid "${PPID}" --pwd "${PWD}" --salt "${SDBH_SALT}" --cmd "${cmd}" 2>/dev/null || true
}

if ! [[ "${PROMPT_COMMAND}" =~ __sdbh_prompt ]]; then
  PROMPT_COMMAND="__sdbh_prompt${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
fi`

const zshHookSnippet = `# sdbh zsh hook mode
# Add to ~/.zshrc

export SDBH_SALT=$RANDOM
export SDBH_PPID=$$

sdbh_precmd() {
  local cmd epoch
  cmd="$(fc -ln -1)"
  epoch="$(date +%s)"
  [[ -z "${cmd}" ]] && return
  sdbh log --epoch "${epoch}" --ppid "$$" --pwd "${PWD}" --salt "${SDBH_SALT}" --cmd "${cmd}" 2>/dev/null || true
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd sdbh_precmd`

const bashInterceptSnippet = `# sdbh bash intercept mode (more invasive)
# Uses DEBUG trap to log each command before it runs.
# Add to ~/.bashrc

export SDBH_SALT=${RANDOM}
export SDBH_PPID=$PPID

__sdbh_debug_trap() {
  # Avoid recursion
  [[ -n "${__SDBH_IN_TRAP}" ]] && return
  __SDBH_IN_TRAP=1

  local cmd epoch
  cmd="${BASH_COMMAND}"
  epoch="$(date +%s)"

  # Filter out the trap itself / empty
  [[ -z "${cmd}" ]] && __SDBH_IN_TRAP= && return
  [[ "${cmd}" == sdbh* ]] && __SDBH_IN_TRAP= && return

  sdbh log --epoch "${epoch}" --ppid "${PPID}" --pwd "${PWD}" --salt "${SDBH_SALT}" --cmd "${cmd}" 2>/dev/null || true
  __SDBH_IN_TRAP=
}

trap '__sdbh_debug_trap' DEBUG`

const zshInterceptSnippet = `# sdbh zsh intercept mode (more invasive)
# Uses preexec to log each command before it runs.
# Add to ~/.zshrc

export SDBH_SALT=$RANDOM
export SDBH_PPID=$$

function sdbh_preexec() {
  local cmd="$1"
  local epoch="$(date +%s)"
  [[ -z "${cmd}" ]] && return
  [[ "${cmd}" == sdbh* ]] && return
  sdbh log --epoch "${epoch}" --ppid "$$" --pwd "${PWD}" --salt "${SDBH_SALT}" --cmd "${cmd}" 2>/dev/null || true
}

autoload -Uz add-zsh-hook
add-zsh-hook preexec sdbh_preexec`

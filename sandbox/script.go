// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"strings"
)

// InnerShell runs the inner script on both backends.
const InnerShell = "/bin/sh"

// ScriptName is $0 of the inner script; the assistant's arguments
// follow it as "$@".
const ScriptName = "claude-sandbox"

// AssistantCommand is the executable started inside the sandbox.
const AssistantCommand = "claude"

// IDETokenEnv carries the relayed IDE token into the assistant.
const IDETokenEnv = "CLAUDE_CODE_IDE_AUTH_TOKEN"

// InnerScript returns the shell snippet run inside the sandbox. It
// changes to the project, consumes the staged IDE token (if any)
// through file descriptor 3 and deletes the file before the assistant
// starts, then execs the assistant with permission prompts disabled:
// the sandbox replaces per-action consent.
func InnerScript(projectRoot string) string {
	lines := []string{
		"set -e",
		"cd " + ShellQuote(projectRoot),
		`if [ -n "${` + IDETokenFileEnv + `:-}" ] && [ -f "$` + IDETokenFileEnv + `" ]; then`,
		`  exec 3<"$` + IDETokenFileEnv + `"`,
		`  rm -f "$` + IDETokenFileEnv + `"`,
		`  IFS= read -r ` + IDETokenEnv + ` <&3 || [ -n "$` + IDETokenEnv + `" ]`,
		`  exec 3<&-`,
		`  export ` + IDETokenEnv,
		`fi`,
		`unset ` + IDETokenFileEnv,
		`exec ` + AssistantCommand + ` --dangerously-skip-permissions "$@"`,
	}
	return strings.Join(lines, "\n") + "\n"
}

// ShellQuote returns s in a form /bin/sh reads back as one word.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!#&|;(){}[]<>?*~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

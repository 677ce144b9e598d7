// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"maps"
	"strings"

	"github.com/bureau-foundation/claude-sandbox/lib/credential"
)

// Environment variables the sandbox defines or reads.
const (
	// MarkerEnv is set to "1" inside every sandbox.
	MarkerEnv = "CLAUDE_SANDBOX"

	// IDETokenFileEnv names the staged IDE token for the inner script.
	IDETokenFileEnv = "CLAUDE_SANDBOX_IDE_TOKEN_FILE"

	// IDEPortEnv is the editor integration's port.
	IDEPortEnv = "CLAUDE_CODE_SSE_PORT"

	// ProfileEnv names the Profile backend's base policy file.
	ProfileEnv = "CLAUDE_SANDBOX_PROFILE"
)

// hostSocketVariables point at host sockets or session buses. They are
// never inherited; enabled integrations re-add what they expose.
var hostSocketVariables = []string{
	"SSH_AUTH_SOCK",
	"XDG_RUNTIME_DIR",
	"DBUS_SESSION_BUS_ADDRESS",
	"GPG_AGENT_INFO",
	IDEPortEnv,
	IDETokenFileEnv,
}

// SanitizeEnvironment returns a copy of environ without host socket
// variables. When plan exposes no SSH agent, any other variable whose
// value mentions hostSSHSocket (GIT_SSH_COMMAND with -o IdentityAgent=,
// for one) is removed as well, so the raw path cannot leak under
// another name.
func SanitizeEnvironment(environ map[string]string, plan *credential.Plan, hostSSHSocket string) map[string]string {
	result := maps.Clone(environ)
	if result == nil {
		result = make(map[string]string)
	}
	for _, key := range hostSocketVariables {
		delete(result, key)
	}
	if (plan == nil || plan.SSH == nil) && hostSSHSocket != "" {
		for key, value := range result {
			if strings.Contains(value, hostSSHSocket) {
				delete(result, key)
			}
		}
	}
	return result
}

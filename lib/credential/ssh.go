// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bureau-foundation/claude-sandbox/lib/session"
	"golang.org/x/crypto/ssh"
)

// SandboxSSHSocket is where a rebound agent socket appears inside the
// sandbox.
const SandboxSSHSocket = "/run/claude-sandbox/ssh-agent.sock"

// knownHostsFiles are copied verbatim when present.
var knownHostsFiles = []string{"known_hosts", "known_hosts2"}

// SSHAgent describes the exposed agent socket.
type SSHAgent struct {
	// HostSocket is the real socket path ($SSH_AUTH_SOCK).
	HostSocket string

	// SandboxSocket is the path the sandboxed process connects to.
	SandboxSocket string

	// Rebound is true when SandboxSocket differs from HostSocket.
	Rebound bool

	// Staged lists the artifacts copied into the isolated ~/.ssh.
	Staged []string
}

func (b *Bridge) prepareSSH() (*SSHAgent, error) {
	socket := b.host.SSHAuthSock
	if socket == "" {
		b.logger.Warn("ssh-agent access requested but SSH_AUTH_SOCK is not set")
		return nil, nil
	}
	info, err := os.Stat(socket)
	if err != nil {
		b.logger.Warn("ssh-agent access requested but the agent socket is unavailable",
			"path", socket,
			"error", err,
		)
		return nil, nil
	}
	if info.Mode().Type() != os.ModeSocket {
		b.logger.Warn("ssh-agent access requested but SSH_AUTH_SOCK is not a socket", "path", socket)
		return nil, nil
	}

	agent := &SSHAgent{HostSocket: socket, SandboxSocket: socket}
	// The isolated home hides everything under the host home, so a
	// socket there has to be rebound somewhere visible.
	if Within(filepath.Clean(socket), b.host.Home) {
		agent.SandboxSocket = SandboxSSHSocket
		agent.Rebound = true
	}

	staged, err := b.stageSSHFiles(agent.SandboxSocket)
	if err != nil {
		return nil, err
	}
	agent.Staged = staged

	b.logger.Debug("ssh agent exposed",
		"host_socket", agent.HostSocket,
		"sandbox_socket", agent.SandboxSocket,
		"staged", len(staged),
	)
	return agent, nil
}

// stageSSHFiles copies known hosts, public keys, and a rewritten client
// config into the isolated ~/.ssh. Private keys are never read.
func (b *Bridge) stageSSHFiles(sandboxSocket string) ([]string, error) {
	sshDir := filepath.Join(b.host.Home, ".ssh")
	var staged []string

	stage := func(name string, data []byte, perm os.FileMode) error {
		stagedPath, err := b.stager.Stage(path.Join(session.HomeDir, ".ssh", name), data, perm)
		if err != nil {
			return err
		}
		staged = append(staged, stagedPath)
		return nil
	}

	for _, name := range knownHostsFiles {
		data, err := os.ReadFile(filepath.Join(sshDir, name))
		if err != nil {
			if !isNotExist(err) {
				b.logger.Warn("skipping unreadable ssh file", "name", name, "error", err)
			}
			continue
		}
		if err := stage(name, data, 0o644); err != nil {
			return nil, fmt.Errorf("staging ssh %s: %w", name, err)
		}
	}

	publicKeys, err := filepath.Glob(filepath.Join(sshDir, "*.pub"))
	if err != nil {
		return nil, fmt.Errorf("listing ssh public keys: %w", err)
	}
	sort.Strings(publicKeys)
	for _, keyPath := range publicKeys {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			b.logger.Warn("skipping unreadable public key", "path", keyPath, "error", err)
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err != nil {
			b.logger.Warn("skipping file that is not an ssh public key", "path", keyPath)
			continue
		}
		if err := stage(filepath.Base(keyPath), data, 0o644); err != nil {
			return nil, fmt.Errorf("staging ssh public key: %w", err)
		}
	}

	configData, err := os.ReadFile(filepath.Join(sshDir, "config"))
	switch {
	case err == nil:
		if err := stage("config", RewriteIdentityAgent(configData, sandboxSocket), 0o600); err != nil {
			return nil, fmt.Errorf("staging ssh config: %w", err)
		}
	case !isNotExist(err):
		b.logger.Warn("skipping unreadable ssh config", "error", err)
	}

	return staged, nil
}

// RewriteIdentityAgent points every IdentityAgent directive in an ssh
// client config at socket. "IdentityAgent none" is left alone.
// Indentation and all other lines are preserved.
func RewriteIdentityAgent(configData []byte, socket string) []byte {
	var output bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(configData))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if indent, value, ok := splitDirective(line, "identityagent"); ok && !strings.EqualFold(value, "none") {
			line = indent + "IdentityAgent " + quoteSSHValue(socket)
		}
		output.WriteString(line)
		output.WriteByte('\n')
	}
	return output.Bytes()
}

// splitDirective recognizes "Keyword value" and "Keyword=value" lines
// (keyword case-insensitive) and returns the leading indentation and
// the unquoted value.
func splitDirective(line, keyword string) (indent, value string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent = line[:len(line)-len(trimmed)]
	if len(trimmed) <= len(keyword) || !strings.EqualFold(trimmed[:len(keyword)], keyword) {
		return "", "", false
	}
	rest := trimmed[len(keyword):]
	if rest[0] != ' ' && rest[0] != '\t' && rest[0] != '=' {
		return "", "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, "=")
	value = strings.Trim(strings.TrimSpace(rest), `"`)
	return indent, value, true
}

func quoteSSHValue(value string) string {
	if strings.ContainsAny(value, " \t") {
		return `"` + value + `"`
	}
	return value
}

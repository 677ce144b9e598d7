// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bureau-foundation/claude-sandbox/lib/credential"
)

// Namespace is the bubblewrap backend.
type Namespace struct {
	// BwrapPath overrides bwrap discovery.
	BwrapPath string
}

func (*Namespace) sealed() {}

// Name returns "bwrap".
func (*Namespace) Name() string { return "bwrap" }

// Build assembles the bwrap argument list. Each step may shadow paths
// mounted by an earlier one, so steps must stay in this order.
func (n *Namespace) Build(cfg *Config, script string) (*WrapResult, error) {
	if cfg == nil {
		return nil, errors.New("sandbox: config is required")
	}
	if cfg.IsolatedHome == "" || cfg.HostHome == "" || cfg.ProjectRoot == "" {
		return nil, errors.New("sandbox: isolated home, host home, and project root are required")
	}

	plan := cfg.Credentials
	if plan == nil {
		plan = &credential.Plan{}
	}
	layout := cfg.Layout
	rootTemp := layout.RootTemp
	if rootTemp == "" {
		rootTemp = "/tmp"
	}

	b := newBwrapBuilder()
	env := SanitizeEnvironment(cfg.Environ, plan, cfg.Environ["SSH_AUTH_SOCK"])

	// Virtual filesystems.
	b.add("--proc", "/proc")
	b.add("--dev", "/dev")

	// System directories, best-effort.
	for _, dir := range layout.SystemDirs {
		b.add("--ro-bind-try", dir, dir)
	}

	// Curated runtime subpaths. The per-user runtime directory is
	// added later only if a capability asks for it.
	for _, dir := range layout.RuntimeAllowList {
		b.add("--ro-bind-try", dir, dir)
	}

	// Package store and its daemon socket.
	if layout.StoreRoot != "" && exists(layout.StoreRoot) {
		b.add("--ro-bind", layout.StoreRoot, layout.StoreRoot)
		if layout.StoreDaemonSocket != "" && exists(layout.StoreDaemonSocket) {
			b.add("--bind", layout.StoreDaemonSocket, layout.StoreDaemonSocket)
		}
	}

	// Sanitized ssh_config over the original; after the store so it
	// can shadow a path inside it.
	if cfg.SanitizedSSHConfig != "" && layout.SystemSSHConfig != "" {
		b.add("--ro-bind", cfg.SanitizedSSHConfig, layout.SystemSSHConfig)
	}

	b.add("--tmpfs", rootTemp)

	// Isolated identity, then the assistant's own state inside it.
	b.add("--bind", cfg.IsolatedHome, cfg.HostHome)
	if cfg.ClaudeConfigDir != "" {
		b.add("--bind", cfg.ClaudeConfigDir, cfg.ClaudeConfigDir)
	}
	if cfg.ClaudeCredentialsFile != "" {
		b.add("--bind", cfg.ClaudeCredentialsFile, cfg.ClaudeCredentialsFile)
	}

	for _, path := range plan.GitConfig {
		b.add("--ro-bind", path, path)
	}

	b.add("--unshare-all", "--share-net", "--die-with-parent")

	b.setenv("HOME", cfg.HostHome)
	b.setenv("USER", cfg.User)
	b.setenv("PATH", cfg.Path)
	b.setenv("TMPDIR", rootTemp)
	b.setenv("TMP", rootTemp)
	b.setenv("TEMP", rootTemp)
	b.setenv(MarkerEnv, "1")

	if cfg.SharedTree != "" && cfg.SharedTree != cfg.ProjectRoot {
		b.add("--ro-bind", cfg.SharedTree, cfg.SharedTree)
	}
	b.add("--bind", cfg.ProjectRoot, cfg.ProjectRoot)

	// Runtime sockets: the broad bind supersedes the narrow ones.
	if plan.RuntimeDir != "" {
		b.add("--ro-bind", plan.RuntimeDir, plan.RuntimeDir)
		b.setenv("XDG_RUNTIME_DIR", plan.RuntimeDir)
	}
	if plan.GPGSocketDir != "" && !covered(plan.GPGSocketDir, plan.RuntimeDir) {
		b.add("--ro-bind", plan.GPGSocketDir, plan.GPGSocketDir)
	}
	if agent := plan.SSH; agent != nil {
		if agent.Rebound || !covered(agent.HostSocket, plan.RuntimeDir) {
			b.add("--ro-bind", agent.HostSocket, agent.SandboxSocket)
		}
		b.setenv("SSH_AUTH_SOCK", agent.SandboxSocket)
	}

	// IDE lock directory: read-only when relayed, hidden otherwise so
	// the read-write config bind never exposes it.
	if ide := plan.IDE; ide != nil {
		b.add("--ro-bind", ide.LockDir, ide.LockDir)
		b.setenv(IDEPortEnv, ide.Port)
		b.setenv(IDETokenFileEnv, sandboxPath(ide.TokenFile, cfg.IsolatedHome, cfg.HostHome))
	} else if cfg.IDELockDir != "" && isDir(cfg.IDELockDir) {
		b.add("--tmpfs", cfg.IDELockDir)
	}

	b.add("--", InnerShell, "-c", script, ScriptName)
	b.add(cfg.ClaudeArgs...)

	for key, value := range b.env {
		env[key] = value
	}

	return &WrapResult{
		Command: n.command(),
		Args:    b.args,
		Env:     env,
	}, nil
}

// command resolves the bwrap executable, falling back to the bare name
// so a dry run still renders on hosts without bwrap.
func (n *Namespace) command() string {
	if n.BwrapPath != "" {
		return n.BwrapPath
	}
	if path, err := exec.LookPath("bwrap"); err == nil {
		return path
	}
	if path, err := BwrapPath(); err == nil {
		return path
	}
	return "bwrap"
}

// bwrapBuilder accumulates arguments and the values pinned by --setenv.
type bwrapBuilder struct {
	args []string
	env  map[string]string
}

func newBwrapBuilder() *bwrapBuilder {
	return &bwrapBuilder{env: make(map[string]string)}
}

func (b *bwrapBuilder) add(args ...string) {
	b.args = append(b.args, args...)
}

func (b *bwrapBuilder) setenv(key, value string) {
	b.args = append(b.args, "--setenv", key, value)
	b.env[key] = value
}

// covered reports whether path is already visible through the broad
// runtime bind.
func covered(path, runtimeDir string) bool {
	return runtimeDir != "" && credential.Within(filepath.Clean(path), runtimeDir)
}

// sandboxPath maps a host path under the isolated home to where it
// appears inside the namespace.
func sandboxPath(hostPath, isolatedHome, sandboxHome string) string {
	relative, err := filepath.Rel(isolatedHome, hostPath)
	if err != nil || !credential.Within(hostPath, isolatedHome) {
		return hostPath
	}
	return filepath.Join(sandboxHome, relative)
}

// BwrapPath returns the path to bwrap in a standard location.
func BwrapPath() (string, error) {
	paths := []string{
		"/usr/bin/bwrap",
		"/usr/local/bin/bwrap",
		"/bin/bwrap",
		"/run/current-system/sw/bin/bwrap",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("bwrap not found in standard locations")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

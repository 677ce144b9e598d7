// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Host is a snapshot of the host facts the bridge reads. Taking it once
// keeps every later decision consistent within an invocation.
type Host struct {
	// Home is the real home directory.
	Home string

	// User is the login name.
	User string

	// RuntimeDir is $XDG_RUNTIME_DIR, defaulting to /run/user/<uid>.
	RuntimeDir string

	// ConfigHome is $XDG_CONFIG_HOME, defaulting to ~/.config.
	ConfigHome string

	// SSHAuthSock is $SSH_AUTH_SOCK; empty when no agent is forwarded.
	SSHAuthSock string

	// IDEPortHint is $CLAUDE_CODE_SSE_PORT, naming the lock file of the
	// editor that launched us.
	IDEPortHint string

	// ClaudeConfigDir is $CLAUDE_CONFIG_DIR, defaulting to ~/.claude.
	ClaudeConfigDir string
}

// HostEnvironment builds a Host from getenv (os.Getenv in production).
func HostEnvironment(getenv func(string) string) (Host, error) {
	home := getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return Host{}, fmt.Errorf("determining home directory: %w", err)
		}
	}
	if !filepath.IsAbs(home) {
		return Host{}, fmt.Errorf("home directory %q is not absolute", home)
	}
	home = filepath.Clean(home)

	user := getenv("USER")
	if user == "" {
		user = getenv("LOGNAME")
	}
	if user == "" {
		user = strconv.Itoa(os.Getuid())
	}

	runtimeDir := getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join("/run/user", strconv.Itoa(os.Getuid()))
	}

	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	claudeConfigDir := getenv("CLAUDE_CONFIG_DIR")
	if claudeConfigDir == "" {
		claudeConfigDir = filepath.Join(home, ".claude")
	}

	return Host{
		Home:            home,
		User:            user,
		RuntimeDir:      filepath.Clean(runtimeDir),
		ConfigHome:      filepath.Clean(configHome),
		SSHAuthSock:     getenv("SSH_AUTH_SOCK"),
		IDEPortHint:     getenv("CLAUDE_CODE_SSE_PORT"),
		ClaudeConfigDir: filepath.Clean(claudeConfigDir),
	}, nil
}

// IDELockDir is where editor integrations drop their lock files.
func (h Host) IDELockDir() string {
	return filepath.Join(h.ClaudeConfigDir, "ide")
}

// Within reports whether path is dir or lies beneath it. Both must be
// absolute and clean.
func Within(path, dir string) bool {
	relative, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator))
}

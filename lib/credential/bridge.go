// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/claude-sandbox/lib/config"
)

// Stager writes credential artifacts inside the session directory.
// *session.Session implements it.
type Stager interface {
	// Home returns the isolated home directory.
	Home() string

	// Stage writes data at a path relative to the session directory and
	// returns the absolute path.
	Stage(relative string, data []byte, perm os.FileMode) (string, error)
}

// Plan records every exposure decision for one invocation. A nil or
// empty field means the integration is off.
type Plan struct {
	// SSH is set when the agent socket exists and ssh-agent access is on.
	SSH *SSHAgent

	// GPGSocketDir is the gpg-agent socket directory.
	GPGSocketDir string

	// GitConfig lists existing global git configuration paths.
	GitConfig []string

	// RuntimeDir is the per-user runtime directory, exposed whole.
	RuntimeDir string

	// IDE is set when an auth token was found and staged.
	IDE *IDE
}

// Bridge probes the host and stages artifacts into a session.
type Bridge struct {
	host   Host
	stager Stager
	logger *slog.Logger
}

// NewBridge returns a Bridge for one session.
func NewBridge(host Host, stager Stager, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{host: host, stager: stager, logger: logger}
}

// Prepare decides every integration once. Integrations whose host side
// is missing are disabled with a warning; the returned error reports
// only failures to stage artifacts.
func (b *Bridge) Prepare(capabilities config.Capabilities) (*Plan, error) {
	plan := &Plan{}

	if capabilities.SSHAgent {
		agent, err := b.prepareSSH()
		if err != nil {
			return nil, err
		}
		plan.SSH = agent
	}

	if capabilities.GPGAgent {
		socketDir := filepath.Join(b.host.RuntimeDir, "gnupg")
		if isDir(socketDir) {
			plan.GPGSocketDir = socketDir
		} else {
			b.logger.Warn("gpg-agent access requested but no socket directory found",
				"path", socketDir,
			)
		}
	}

	if capabilities.GitConfig {
		for _, path := range []string{
			filepath.Join(b.host.Home, ".gitconfig"),
			filepath.Join(b.host.ConfigHome, "git"),
		} {
			if exists(path) {
				plan.GitConfig = append(plan.GitConfig, path)
			}
		}
		if len(plan.GitConfig) == 0 {
			b.logger.Warn("git-config access requested but no global git configuration found")
		}
	}

	if capabilities.XDGRuntime {
		if isDir(b.host.RuntimeDir) {
			plan.RuntimeDir = b.host.RuntimeDir
		} else {
			b.logger.Warn("xdg-runtime access requested but the runtime directory does not exist",
				"path", b.host.RuntimeDir,
			)
		}
	}

	if capabilities.IDE {
		ide, err := b.prepareIDE()
		if err != nil {
			return nil, err
		}
		plan.IDE = ide
	}

	return plan, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

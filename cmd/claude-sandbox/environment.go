// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/claude-sandbox/lib/credential"
	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

// environment is everything the commands take from the process. Tests
// build one by hand.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	getenv  func(string) string
	environ []string

	// workdir is the project root.
	workdir string

	goos    string
	tempDir string
	logger  *slog.Logger

	// signals carries SIGINT and SIGTERM; nil disables forwarding.
	signals <-chan os.Signal

	// probe inspects the host for "doctor".
	probe func(goos string) sandbox.HostSupport
}

// configHome is the directory holding claude-sandbox's config
// directory, taken from the environment's XDG_CONFIG_HOME or HOME. ""
// when neither yields an absolute path.
func (e *environment) configHome() string {
	host, err := credential.HostEnvironment(e.getenv)
	if err != nil {
		e.logger.Debug("cannot locate config home", "error", err)
		return ""
	}
	return host.ConfigHome
}

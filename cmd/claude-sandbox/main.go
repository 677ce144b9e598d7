// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/claude-sandbox/cmd/claude-sandbox/cli"
	"github.com/bureau-foundation/claude-sandbox/lib/process"
	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

func main() {
	if err := run(); err != nil {
		// A child's exit status is passed through silently.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run() error {
	workdir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	// Registered before anything is created so no signal can slip
	// between session creation and the launcher taking over.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(signals)

	env := &environment{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		environ: os.Environ(),
		workdir: workdir,
		goos:    runtime.GOOS,
		tempDir: os.TempDir(),
		logger:  cli.NewCommandLogger(),
		signals: signals,
		probe:   sandbox.ProbeHost,
	}
	return execute(env, os.Args[1:])
}

// execute runs the command tree. A SIGINT or SIGTERM that arrived while
// a command other than a real launch was running (which forwards and
// drains them itself) still ends the process with 128+n. An error from
// the command takes precedence.
func execute(env *environment, args []string) error {
	err := rootCommand(env).Execute(args)
	if err != nil {
		return err
	}
	select {
	case received := <-env.signals:
		env.logger.Debug("interrupted", "signal", received)
		return &cli.ExitError{Code: process.SignalExitCode(received)}
	default:
		return nil
	}
}

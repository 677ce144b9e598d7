// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/claude-sandbox/lib/clock"
	"github.com/bureau-foundation/claude-sandbox/lib/process"
	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

// DefaultGracePeriod is how long a signalled child may take to exit
// before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Options configure Run. Zero values select the process's own stdio,
// no signal handling, DefaultGracePeriod, and the real clock.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Signals delivers termination signals received by the wrapper.
	Signals <-chan os.Signal

	GracePeriod time.Duration
	Clock       clock.Clock

	// Cleanup runs exactly once after the child is gone, or before
	// returning when the child never started.
	Cleanup func() error

	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.GracePeriod <= 0 {
		o.GracePeriod = DefaultGracePeriod
	}
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Run spawns result and waits for it. It returns the exit status the
// wrapper should exit with: the child's own status, or 128+n when the
// wrapper was stopped by signal n. A non-nil error means the child
// could not be started; the status is then process.ExitFailure.
//
// Cancelling ctx is treated like receiving SIGTERM.
func Run(ctx context.Context, result *sandbox.WrapResult, options Options) (int, error) {
	options.setDefaults()
	cleanup := func() {
		if options.Cleanup == nil {
			return
		}
		if err := options.Cleanup(); err != nil {
			options.Logger.Warn("session cleanup failed", "error", err)
		}
	}

	// A signal that beat the spawn: nothing to forward to.
	select {
	case received := <-options.Signals:
		options.Logger.Debug("signal before start", "signal", received)
		cleanup()
		return process.SignalExitCode(received), nil
	default:
	}

	cmd := exec.Command(result.Command, result.Args...)
	cmd.Env = result.Environ()
	cmd.Stdin = options.Stdin
	cmd.Stdout = options.Stdout
	cmd.Stderr = options.Stderr

	if err := cmd.Start(); err != nil {
		cleanup()
		return process.ExitFailure, fmt.Errorf("starting %s: %w", result.Command, err)
	}
	options.Logger.Debug("sandbox started", "command", result.Command, "pid", cmd.Process.Pid)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var (
		stopSignal os.Signal
		grace      <-chan time.Time
		cancelled  = ctx.Done()
	)
	stop := func(signal os.Signal) {
		if stopSignal == nil {
			stopSignal = signal
			grace = options.Clock.After(options.GracePeriod)
		}
		if err := cmd.Process.Signal(signal); err != nil {
			options.Logger.Debug("forwarding signal", "signal", signal, "error", err)
		}
	}

	for {
		select {
		case waitErr := <-done:
			code, err := process.ChildExitCode(waitErr)
			cleanup()
			if err != nil {
				return code, fmt.Errorf("waiting for %s: %w", result.Command, err)
			}
			if stopSignal != nil {
				return process.SignalExitCode(stopSignal), nil
			}
			return code, nil

		case received := <-options.Signals:
			options.Logger.Debug("forwarding signal", "signal", received)
			stop(received)

		case <-cancelled:
			cancelled = nil
			stop(unix.SIGTERM)

		case <-grace:
			grace = nil
			options.Logger.Warn("sandbox did not exit after signal, killing it",
				"grace_period", options.GracePeriod)
			if err := cmd.Process.Kill(); err != nil {
				options.Logger.Debug("killing sandbox", "error", err)
			}
		}
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// ExitFailure is the status for setup errors: unsupported platform,
// unreadable policy, staging failures, spawn failures.
const ExitFailure = 1

// ExitUsage is the status for command-line usage errors.
const ExitUsage = 2

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors that occur before the logger is initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(ExitFailure)
}

// SignalExitCode returns 128 plus the signal number. Signals that do
// not carry a number (non-Unix platforms) map to ExitFailure.
func SignalExitCode(signal os.Signal) int {
	number, ok := signal.(syscall.Signal)
	if !ok {
		return ExitFailure
	}
	return 128 + int(number)
}

// ChildExitCode converts the error returned by exec.Cmd.Wait into the
// status the parent should exit with. A nil error is 0. A child that
// terminated without an exit status (killed by a signal the parent did
// not itself receive) also maps to 0. The second return value is
// non-nil only when err is not an exit status at all, for example an
// I/O failure while copying the child's streams.
func ChildExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ExitFailure, err
	}
	code := exitErr.ExitCode()
	if code < 0 {
		return 0, nil
	}
	return code, nil
}

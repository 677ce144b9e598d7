// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package launcher runs a built sandbox invocation as a child process
// and renders it for --dry-run.
//
// [Run] owns the child's lifetime: it relays the terminal, forwards
// termination signals, kills the child if it outlives the grace
// period, runs the session cleanup, and returns the exit status the
// wrapper should exit with. A signal that arrives before the child
// starts still triggers cleanup.
//
// [DryRun] prints the environment delta against the current process
// and the full command line without spawning anything.
package launcher

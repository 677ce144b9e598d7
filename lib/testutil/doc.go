// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for claude-sandbox
// packages.
//
// [RequireReceive] bounds a channel receive so a hung child process
// fails the test instead of stalling the run.
//
// [WriteFile], [MkdirAll] and [Touch] build fake host layouts (home
// directories, lock files, SSH material) with controlled modification
// times. [SocketDir] is a short directory for unix sockets.
//
// Helpers fail the test on error instead of returning it.
package testutil

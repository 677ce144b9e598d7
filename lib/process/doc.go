// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the claude-sandbox
// binary. These functions centralize process-exit policy:
//
//   - [Fatal] reports an error to stderr before the structured logger
//     exists and exits with status 1.
//   - [SignalExitCode] maps a caught signal to the conventional
//     128+n exit status (130 for SIGINT, 143 for SIGTERM).
//   - [ChildExitCode] maps a finished child's wait error to the status
//     the parent propagates.
package process

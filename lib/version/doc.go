// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which claude-sandbox build is running.
//
// Release builds set [Version] and [Commit] with
// -ldflags "-X github.com/bureau-foundation/claude-sandbox/lib/version.Version=...".
// Without them, the commit comes from the VCS stamp the Go toolchain
// embeds in the binary, when there is one.
package version

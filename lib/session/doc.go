// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the ephemeral identity a sandboxed run executes
// as: a uniquely named directory under the platform temp root whose
// home/ subdirectory becomes the sandbox's HOME.
//
// A [Session] is created once per invocation by [New] and released by
// [Session.Close], which the binary defers and which the launcher also
// calls after catching SIGINT or SIGTERM. Close runs its removal
// exactly once; later calls return the first result.
//
// Every credential artifact (copied public keys, rewritten ssh config,
// the IDE token file) is written through [Session.Stage], which refuses
// paths that would land outside the session directory, refuses to
// follow symlinks, and refuses to overwrite.
package session

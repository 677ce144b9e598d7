// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for claude-sandbox.
//
// The central type is [Command], which represents a named command with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and
// a Run function. The tree is assembled in cmd/claude-sandbox and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Unknown subcommands and flags are reported as a [UsageError] (exit
// status 2) carrying the nearest known name by edit distance, counting
// adjacent transpositions as a single edit.
//
// Capability flags are tri-state: absent, explicitly true, explicitly
// false. [OptionalBool] binds a flag to a **bool that stays nil unless
// the user typed the flag.
package cli

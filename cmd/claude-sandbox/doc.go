// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// claude-sandbox runs the Claude coding assistant inside an isolated
// environment: bubblewrap on Linux, sandbox-exec on macOS.
//
// The assistant sees the project directory read-write, its sibling
// checkouts read-only, and an ephemeral home directory in place of the
// real one. Host credentials stay out unless a capability flag lets
// them in:
//
//	--ssh-agent     forward the SSH agent socket
//	--gpg-agent     expose the gpg-agent socket directory
//	--git-config    expose ~/.gitconfig and ~/.config/git
//	--xdg-runtime   expose the whole runtime directory
//	--ide           relay the editor integration's port and token
//
// Defaults live in ~/.config/claude-sandbox/config.json (JSON with
// comments) or config.yaml; flags override the file per field.
// Arguments after "--" are passed to the assistant.
//
// This is transparency, not containment: it keeps an honest assistant
// from touching what it has no reason to touch. It is not a boundary
// against hostile code.
package main

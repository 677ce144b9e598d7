// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential decides which host credentials and sockets a
// sandboxed run may reach, and stages the derivative artifacts it
// needs into the session directory.
//
// [Bridge.Prepare] runs once, before any backend is built. For each
// enabled integration it probes the host, records the decision in a
// [Plan], and writes copies (never the originals) through the session:
//
//   - SSH agent: the forwarding socket, rebound to [SandboxSSHSocket]
//     when it lives under the host home; known_hosts and parseable
//     public keys are copied; IdentityAgent in ~/.ssh/config is
//     rewritten to the in-sandbox socket path.
//   - GPG agent: the gnupg socket directory under the runtime dir only.
//   - Git: ~/.gitconfig and $XDG_CONFIG_HOME/git, when present.
//   - XDG runtime: the whole runtime directory.
//   - IDE: the auth token from the newest editor lock file, staged as a
//     0600 file the inner script reads once and deletes.
//
// A discovery miss (no socket, no lock file, unparsable lock) disables
// that integration with a warning. Only staging failures are errors.
// The Plan carries no policy about how paths are mounted; that belongs
// to the sandbox backends.
package credential

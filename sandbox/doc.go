// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sandbox turns a resolved capability set into a concrete
// invocation of a platform isolation tool.
//
// [NewConfig] captures everything a backend needs exactly once: the
// project root, the [SharedTree] above it, the isolated home from the
// session, the Claude configuration paths, and the credential
// [credential.Plan]. A [Config] is not modified afterwards.
//
// A [Backend] has one operation, Build, which turns a Config and the
// [InnerScript] into a [WrapResult]: command, arguments, environment.
// [ForPlatform] is the only place a backend is chosen:
//
//   - [Namespace] (linux) drives bubblewrap. The argument list is an
//     ordered mount plan: virtual filesystems, system directories, a
//     runtime allow-list, the Nix store, a sanitized ssh_config, a
//     fresh /tmp, the isolated home, git config, namespace flags,
//     pinned environment, shared tree and project, runtime sockets,
//     and the IDE lock directory. Later binds override earlier ones, so
//     the order is part of the contract.
//   - [Profile] (darwin) drives sandbox-exec with an externally supplied
//     base policy plus a generated fragment. Paths reach the policy as
//     -D parameters, never spliced into policy text.
//
// The emitted environment never carries the host SSH agent socket path
// unless ssh-agent access is enabled; see [SanitizeEnvironment].
//
// [Diagnose] and [ProbeHost] back the "doctor" command.
//
// This is transparency tooling: it narrows what an assistant touches by
// accident. It is not a containment boundary for hostile code.
package sandbox

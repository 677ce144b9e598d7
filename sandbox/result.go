// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"maps"
	"slices"
)

// WrapResult is a complete invocation of an isolation tool. It is the
// only thing the launcher receives from a backend.
type WrapResult struct {
	// Command is the executable to run.
	Command string

	// Args are the arguments after Command, in order.
	Args []string

	// Env is the full environment of the spawned process.
	Env map[string]string
}

// Argv returns Command followed by Args.
func (r *WrapResult) Argv() []string {
	return append([]string{r.Command}, r.Args...)
}

// Environ returns Env as sorted KEY=value pairs, the form os/exec
// expects.
func (r *WrapResult) Environ() []string {
	keys := slices.Sorted(maps.Keys(r.Env))
	environ := make([]string, 0, len(keys))
	for _, key := range keys {
		environ = append(environ, key+"="+r.Env[key])
	}
	return environ
}

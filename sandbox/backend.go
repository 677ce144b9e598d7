// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned by ForPlatform for hosts with
	// no backend.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrProfileUnavailable is returned by the Profile backend when the
	// base policy is unset or unreadable.
	ErrProfileUnavailable = errors.New("sandbox profile unavailable")
)

// Backend turns a Config and an inner script into an invocation. The
// set of backends is closed: only this package implements it.
type Backend interface {
	// Name identifies the backend in logs and doctor output.
	Name() string

	// Build returns the invocation. It either succeeds completely or
	// returns an error; nothing is spawned either way.
	Build(cfg *Config, script string) (*WrapResult, error)

	sealed()
}

// ForPlatform returns the backend for goos (runtime.GOOS in
// production). It is the only place the platform is consulted.
func ForPlatform(goos string) (Backend, error) {
	switch goos {
	case "linux":
		return &Namespace{}, nil
	case "darwin":
		return &Profile{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
}

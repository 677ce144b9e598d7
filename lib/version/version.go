// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at link time.
var (
	Version = "0.1.0-dev"
	Commit  = ""
)

// buildInfo is replaced in tests.
var buildInfo = debug.ReadBuildInfo

// Info returns "<version> (<commit>)", or just the version when no
// commit is known. A commit built from a modified tree ends in "-dirty".
func Info() string {
	commit := Commit
	if commit == "" {
		commit = stampedCommit()
	}
	if commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}

// Full is Info plus the toolchain and the platform, which decides the
// sandbox backend.
func Full() string {
	return fmt.Sprintf("%s\n  go:       %s\n  platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func stampedCommit() string {
	info, ok := buildInfo()
	if !ok {
		return ""
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}

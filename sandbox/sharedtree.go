// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"path/filepath"
	"strings"
)

// SharedTree returns the directory granted read-only so sibling
// checkouts of a project stay reachable. For a project under home it
// is the first directory below home on the way to the project
// (/home/u/work/repo gives /home/u/work). Anything else, including the
// home directory itself, gives the project root unchanged.
//
// Both arguments must be absolute and clean.
func SharedTree(projectRoot, home string) string {
	relative, err := filepath.Rel(home, projectRoot)
	if err != nil || relative == "." || relative == ".." ||
		strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return projectRoot
	}
	first, _, _ := strings.Cut(relative, string(filepath.Separator))
	return filepath.Join(home, first)
}

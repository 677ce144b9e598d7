// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/claude-sandbox/lib/credential"
)

// sanitizedSSHConfigName is the staged file's name in the session.
const sanitizedSSHConfigName = "ssh_config"

// SanitizeSSHConfig removes Include targets that point into storeRoot.
// Inside the user namespace the store is owned by the overflow uid, and
// ssh refuses to read included files whose owner it cannot verify.
// Other targets on the same line are kept; a line left with no targets
// is dropped. Returns the input unchanged and false when nothing was
// removed.
func SanitizeSSHConfig(data []byte, storeRoot string) ([]byte, bool) {
	var output bytes.Buffer
	changed := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		rewritten, keep := filterInclude(line, storeRoot)
		if !keep || rewritten != line {
			changed = true
		}
		if !keep {
			continue
		}
		output.WriteString(rewritten)
		output.WriteByte('\n')
	}
	if !changed {
		return data, false
	}
	return output.Bytes(), true
}

// filterInclude rewrites an Include directive without its store
// targets. keep is false when no target survives. Any other line comes
// back untouched.
func filterInclude(line, storeRoot string) (rewritten string, keep bool) {
	trimmed := strings.TrimSpace(line)
	end := strings.IndexAny(trimmed, " \t=")
	if end < 0 || !strings.EqualFold(trimmed[:end], "include") {
		return line, true
	}
	keyword := trimmed[:end]
	rest := strings.TrimLeft(trimmed[end:], " \t")
	if after, found := strings.CutPrefix(rest, "="); found {
		rest = after
	}
	targets := strings.Fields(rest)
	if len(targets) == 0 {
		return line, true
	}

	var kept []string
	for _, target := range targets {
		if credential.Within(filepath.Clean(strings.Trim(target, `"`)), storeRoot) {
			continue
		}
		kept = append(kept, target)
	}
	switch len(kept) {
	case len(targets):
		return line, true
	case 0:
		return "", false
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return indent + keyword + " " + strings.Join(kept, " "), true
}

// stageSanitizedSSHConfig writes the sanitized system ssh_config into
// the session when sanitizing changes it. Returns "" when the file is
// missing or needs no change.
func stageSanitizedSSHConfig(stager credential.Stager, layout HostLayout) (string, error) {
	data, err := os.ReadFile(layout.SystemSSHConfig)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", layout.SystemSSHConfig, err)
	}
	sanitized, changed := SanitizeSSHConfig(data, layout.StoreRoot)
	if !changed {
		return "", nil
	}
	return stager.Stage(sanitizedSSHConfigName, sanitized, 0o644)
}

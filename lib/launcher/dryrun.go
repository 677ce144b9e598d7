// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

// DryRun writes what Run would do: the environment changes relative
// to current, then the command one argument per line. Colors apply
// only when w is a terminal.
func DryRun(w io.Writer, result *sandbox.WrapResult, current map[string]string) error {
	renderer := lipgloss.NewRenderer(w)
	heading := renderer.NewStyle().Bold(true)
	added := renderer.NewStyle().Foreground(lipgloss.Color("2"))
	changed := renderer.NewStyle().Foreground(lipgloss.Color("3"))
	removed := renderer.NewStyle().Foreground(lipgloss.Color("1"))

	var builder strings.Builder
	builder.WriteString(heading.Render("# environment"))
	builder.WriteByte('\n')
	for _, entry := range EnvironmentDelta(current, result.Env) {
		var line string
		switch entry.Kind {
		case Added:
			line = added.Render("+ " + entry.Key + "=" + entry.Value)
		case Changed:
			line = changed.Render("~ " + entry.Key + "=" + entry.Value)
		case Removed:
			line = removed.Render("- " + entry.Key)
		}
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	builder.WriteByte('\n')
	builder.WriteString(heading.Render("# command"))
	builder.WriteByte('\n')
	argv := result.Argv()
	quoted := make([]string, len(argv))
	for index, arg := range argv {
		quoted[index] = sandbox.ShellQuote(arg)
	}
	builder.WriteString(strings.Join(quoted, " \\\n  "))
	builder.WriteByte('\n')

	_, err := io.WriteString(w, builder.String())
	return err
}

// DeltaKind classifies an environment change.
type DeltaKind int

const (
	Added DeltaKind = iota
	Changed
	Removed
)

func (k DeltaKind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("DeltaKind(%d)", int(k))
}

// DeltaEntry is one environment change. Value is empty for Removed.
type DeltaEntry struct {
	Kind  DeltaKind
	Key   string
	Value string
}

// EnvironmentDelta lists the changes from current to target, sorted
// by key.
func EnvironmentDelta(current, target map[string]string) []DeltaEntry {
	var entries []DeltaEntry
	for key, value := range target {
		previous, ok := current[key]
		switch {
		case !ok:
			entries = append(entries, DeltaEntry{Kind: Added, Key: key, Value: value})
		case previous != value:
			entries = append(entries, DeltaEntry{Kind: Changed, Key: key, Value: value})
		}
	}
	for key := range current {
		if _, ok := target[key]; !ok {
			entries = append(entries, DeltaEntry{Kind: Removed, Key: key})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestionDistance bounds how far a typo may be from a known name
// before no suggestion is offered.
const maxSuggestionDistance = 3

// nearest returns the candidate closest to word, or "" when none is
// within maxSuggestionDistance. A candidate is also rejected when the
// edit would rewrite every one of its characters. Ties go to the
// earlier candidate.
func nearest(word string, candidates []string) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		distance := editDistance(word, candidate)
		if distance >= len(candidate) {
			continue
		}
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// suggestFlag proposes a defined flag for a pflag "unknown flag" error.
// The result carries its dash prefix; "" means no suggestion.
func suggestFlag(parseErr error, flagSet *pflag.FlagSet) string {
	typed, ok := unknownFlagName(parseErr.Error())
	if !ok {
		return ""
	}

	var long, short []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		long = append(long, flag.Name)
		if flag.Shorthand != "" {
			short = append(short, flag.Shorthand)
		}
	})

	if len(typed) == 1 {
		if guess := nearest(typed, short); guess != "" {
			return "-" + guess
		}
		return ""
	}
	if guess := nearest(typed, long); guess != "" {
		return "--" + guess
	}
	return ""
}

// unknownFlagName extracts what the user typed from pflag's error text.
// For "unknown shorthand flag: 'd' in -dry-rnu" the whole cluster is
// returned, since a single dash in front of a long name is the more
// likely mistake.
func unknownFlagName(message string) (string, bool) {
	var typed string
	if rest, found := strings.CutPrefix(message, "unknown flag: --"); found {
		typed = rest
	} else if strings.HasPrefix(message, "unknown shorthand flag: ") {
		_, cluster, found := strings.Cut(message, " in -")
		if !found {
			return "", false
		}
		typed = cluster
	} else {
		return "", false
	}
	typed, _, _ = strings.Cut(typed, "=")
	return typed, typed != ""
}

// editDistance is the optimal string alignment distance: insertions,
// deletions, substitutions and adjacent transpositions each cost one.
func editDistance(a, b string) int {
	source, target := []rune(a), []rune(b)
	rows, columns := len(source)+1, len(target)+1

	// Three rolling rows: two back (for transpositions), one back, and
	// the row being filled.
	before := make([]int, columns)
	previous := make([]int, columns)
	current := make([]int, columns)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i < rows; i++ {
		current[0] = i
		for j := 1; j < columns; j++ {
			substitution := 1
			if source[i-1] == target[j-1] {
				substitution = 0
			}
			current[j] = min(
				previous[j]+1,
				current[j-1]+1,
				previous[j-1]+substitution,
			)
			if i > 1 && j > 1 && source[i-1] == target[j-2] && source[i-2] == target[j-1] {
				current[j] = min(current[j], before[j-2]+1)
			}
		}
		before, previous, current = previous, current, before
	}
	return previous[columns-1]
}

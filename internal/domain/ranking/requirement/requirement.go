// Package requirement parses operator-supplied requirement phrases.
package requirement

import (
	"strings"

	"golang.org/x/text/cases"
)

// Separator delimits phrases in the raw requirements string.
const Separator = ","

// Set is an ordered sequence of non-empty requirement phrases.
// Duplicates are kept: each occurrence is checked independently.
type Set struct {
	phrases []string
	folded  []string
}

// Parse splits raw on commas, trims every phrase and drops empty ones. Order is preserved.
// Any string is valid input; an empty string yields an empty Set.
func Parse(raw string) Set {
	parts := strings.Split(raw, Separator)
	s := Set{
		phrases: make([]string, 0, len(parts)),
		folded:  make([]string, 0, len(parts)),
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s.phrases = append(s.phrases, p)
		s.folded = append(s.folded, Fold(p))
	}
	return s
}

// Of builds a Set from already separated phrases, applying the same normalization as Parse.
func Of(phrases ...string) Set {
	return Parse(strings.Join(phrases, Separator))
}

// Phrases returns the trimmed phrases in their original case.
func (s Set) Phrases() []string { return s.phrases }

// Folded returns the case-folded phrases used for matching.
func (s Set) Folded() []string { return s.folded }

// Len returns the number of phrases, duplicates included.
func (s Set) Len() int { return len(s.phrases) }

// IsEmpty reports whether the set has no phrases.
func (s Set) IsEmpty() bool { return len(s.phrases) == 0 }

// String joins the phrases back into canonical comma-separated form.
func (s Set) String() string { return strings.Join(s.phrases, ", ") }

// Fold returns the Unicode case-folded form of s.
// A Caser keeps state, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

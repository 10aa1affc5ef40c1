// Package textutil holds Unicode-aware string matching used by search.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s. A Caser keeps state, so one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr occurs in s ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Matcher checks many candidate strings against one folded needle
type Matcher struct {
	needle string
}

// NewMatcher prepares a case-insensitive substring matcher for q
func NewMatcher(q string) Matcher {
	return Matcher{needle: Fold(strings.TrimSpace(q))}
}

// Empty reports whether the matcher accepts everything
func (m Matcher) Empty() bool {
	return m.needle == ""
}

// Any reports whether any field contains the needle
func (m Matcher) Any(fields ...string) bool {
	if m.needle == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(Fold(f), m.needle) {
			return true
		}
	}
	return false
}

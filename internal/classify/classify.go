// Package classify maps programme names and section headings to category,
// level and provider codes.
//
// Each decision is an ordered rule table evaluated top to bottom; the first
// rule with a matching substring wins. Substrings overlap ("tennis" and
// "table tennis", "art" inside other words), so table order is part of the
// output contract and must not be re-sorted.
package classify

import "strings"

// Rule maps any of its substrings to a code.
type Rule[T ~string] struct {
	Contains []string
	Code     T
}

// matches reports whether text contains any of the rule's substrings.
// text must already be lower-cased.
func (r Rule[T]) matches(text string) bool {
	for _, s := range r.Contains {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// firstMatch returns the code of the first rule matching text.
func firstMatch[T ~string](rules []Rule[T], text string) (T, bool) {
	for _, r := range rules {
		if r.matches(text) {
			return r.Code, true
		}
	}
	var zero T
	return zero, false
}

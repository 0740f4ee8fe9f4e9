// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import "regexp"

// NewRegExpMatcher creates a matcher from a regular expression. Patterns
// that are really just anchored literals are downgraded to plain string
// matchers.
func NewRegExpMatcher(expr string) (Matcher, error) {
	switch expr {
	case "", "^", "$":
		return TRUE(), nil
	case "^$", "$^":
		return NewStringMatcher("", true, true)
	}

	chars := []rune(expr)
	var startWith, endWith bool
	startIdx := 0
	endIdx := len(chars) - 1
	if chars[startIdx] == '^' {
		startWith = true
		startIdx = 1
	}
	if chars[endIdx] == '$' {
		endWith = true
		endIdx--
	}

	unescaped := make([]rune, 0, endIdx-startIdx+1)
	for i := startIdx; i <= endIdx; i++ {
		ch := chars[i]
		switch {
		case ch == '\\':
			if i == endIdx { // trailing '\' => let regexp report it
				return regexp.Compile(expr)
			}
			next := chars[i+1]
			if !isRegExpMeta(next) { // '\' + non-meta char carries special meaning
				return regexp.Compile(expr)
			}
			unescaped = append(unescaped, next)
			i++
		case isRegExpMeta(ch):
			return regexp.Compile(expr)
		default:
			unescaped = append(unescaped, ch)
		}
	}

	return NewStringMatcher(string(unescaped), startWith, endWith)
}

// isRegExpMeta reports whether r needs to be escaped by QuoteMeta.
func isRegExpMeta(r rune) bool {
	switch r {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
		return true
	default:
		return false
	}
}

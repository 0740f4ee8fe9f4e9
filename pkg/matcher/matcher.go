// SPDX-License-Identifier: GPL-3.0-or-later

// Package matcher implements composable string matchers: exact strings,
// globs, regular expressions and space-separated simple patterns (globs
// with '!' negation, first match wins).
package matcher

import (
	"fmt"
	"strings"
)

// Matcher is an interface that wraps MatchString method.
type Matcher interface {
	// Match performs match against given []byte
	Match(b []byte) bool
	// MatchString performs match against given string
	MatchString(string) bool
}

// Must is a helper that wraps a call to a function returning
// (Matcher, error) and panics if the error is non-nil.
func Must(m Matcher, err error) Matcher {
	if err != nil {
		panic(err)
	}
	return m
}

// Parse parses a matcher line of the form "<op> <expression>":
//
//	= string   exact string match
//	~ regexp   regular expression match
//	* patterns space-separated simple patterns
//
// A line without an operator is treated as simple patterns.
func Parse(line string) (Matcher, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty matcher expression")
	}

	op, expr, ok := strings.Cut(line, " ")
	if !ok || len(op) != 1 {
		return NewSimplePatternsMatcher(line)
	}

	switch op {
	case "=":
		return NewStringMatcher(strings.TrimSpace(expr), true, true)
	case "~":
		return NewRegExpMatcher(strings.TrimSpace(expr))
	case "*":
		return NewSimplePatternsMatcher(expr)
	default:
		return NewSimplePatternsMatcher(line)
	}
}

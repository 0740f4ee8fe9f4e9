// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import (
	"errors"
	"strings"
)

// globMatcher implements Matcher, it uses glob wildcards to match.
type globMatcher string

var errBadGlobPattern = errors.New("bad glob pattern")

// NewGlobMatcher create a new matcher with glob format
func NewGlobMatcher(expr string) (Matcher, error) {
	if expr == "*" {
		return TRUE(), nil
	}

	meta, literal, err := scanGlob(expr)
	if err != nil {
		return nil, err
	}
	if !meta {
		return stringFullMatcher(literal), nil
	}

	// wildcards only at the edges reduce to plain string matching
	if trimmed := strings.Trim(expr, "*"); trimmed != "" && !strings.ContainsAny(trimmed, `*?[\`) {
		startWith := !strings.HasPrefix(expr, "*")
		endWith := !strings.HasSuffix(expr, "*")
		if !startWith || !endWith {
			return NewStringMatcher(trimmed, startWith, endWith)
		}
	}

	return globMatcher(expr), nil
}

// scanGlob validates the pattern, reports whether it contains any
// unescaped wildcard and returns the unescaped literal for when it
// doesn't.
func scanGlob(expr string) (meta bool, literal string, err error) {
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; c {
		case '\\':
			i++
			if i == len(expr) {
				return false, "", errBadGlobPattern
			}
			b.WriteByte(expr[i])
		case '*', '?':
			meta = true
		case '[':
			j := i + 1
			if j < len(expr) && expr[j] == '^' {
				j++
			}
			for ; j < len(expr) && expr[j] != ']'; j++ {
				if expr[j] == '\\' {
					j++
				}
			}
			if j >= len(expr) {
				return false, "", errBadGlobPattern
			}
			meta = true
			i = j
		default:
			b.WriteByte(c)
		}
	}
	return meta, b.String(), nil
}

func (m globMatcher) Match(b []byte) bool { return m.MatchString(string(b)) }

func (m globMatcher) MatchString(line string) bool { return globMatch(string(m), line) }

// globMatch matches iteratively, backtracking to the most recent '*' on
// failure.
func globMatch(p, s string) bool {
	starP, starS := -1, 0
	i, j := 0, 0

	for j < len(s) {
		if i < len(p) && p[i] == '*' {
			starP, starS = i, j
			i++
			continue
		}
		if i < len(p) {
			if ok, next := globMatchOne(p, i, s[j]); ok {
				i, j = next, j+1
				continue
			}
		}
		if starP == -1 {
			return false
		}
		starS++
		i, j = starP+1, starS
	}

	for i < len(p) && p[i] == '*' {
		i++
	}
	return i == len(p)
}

func globMatchOne(p string, i int, c byte) (bool, int) {
	switch p[i] {
	case '?':
		return true, i + 1
	case '\\':
		if i+1 < len(p) && p[i+1] == c {
			return true, i + 2
		}
		return false, 0
	case '[':
		return globMatchClass(p, i, c)
	default:
		if p[i] == c {
			return true, i + 1
		}
		return false, 0
	}
}

func globMatchClass(p string, i int, c byte) (bool, int) {
	j := i + 1
	neg := false
	if j < len(p) && p[j] == '^' {
		neg = true
		j++
	}

	matched := false
	for j < len(p) && p[j] != ']' {
		if p[j] == '\\' && j+1 < len(p) {
			j++
		}
		lo := p[j]
		j++
		if j+1 < len(p) && p[j] == '-' && p[j+1] != ']' {
			hi := p[j+1]
			if hi == '\\' && j+2 < len(p) {
				hi = p[j+2]
				j++
			}
			j += 2
			if lo <= c && c <= hi {
				matched = true
			}
			continue
		}
		if c == lo {
			matched = true
		}
	}
	if j >= len(p) {
		return false, 0
	}
	return matched != neg, j + 1
}

// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import (
	"errors"
	"fmt"
)

// SimpleExpr describes the condition:
//
//	(includes[0] || includes[1] || ...) && !(excludes[0] || excludes[1] || ...)
//
// An empty Includes list admits everything.
type SimpleExpr struct {
	Includes []string `yaml:"includes,omitempty" json:"includes"`
	Excludes []string `yaml:"excludes,omitempty" json:"excludes"`
}

var ErrEmptyExpr = errors.New("empty expression")

// Empty returns true if both Includes and Excludes are empty.
func (s *SimpleExpr) Empty() bool {
	return len(s.Includes) == 0 && len(s.Excludes) == 0
}

// Parse compiles the expression into a single matcher.
func (s *SimpleExpr) Parse() (Matcher, error) {
	if s.Empty() {
		return nil, ErrEmptyExpr
	}

	includes := FALSE()
	excludes := FALSE()

	if len(s.Includes) > 0 {
		for _, item := range s.Includes {
			m, err := Parse(item)
			if err != nil {
				return nil, fmt.Errorf("parse matcher %q: %w", item, err)
			}
			includes = Or(includes, m)
		}
	} else {
		includes = TRUE()
	}

	for _, item := range s.Excludes {
		m, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("parse matcher %q: %w", item, err)
		}
		excludes = Or(excludes, m)
	}

	return And(includes, Not(excludes)), nil
}

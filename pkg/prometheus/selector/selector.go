// SPDX-License-Identifier: GPL-3.0-or-later

// Package selector compiles PromQL-flavored expressions
// (`name{label="v",other=~"re"}`) into predicates over sample label sets.
// The metric name is addressable as the __name__ label.
package selector

import (
	"github.com/prometheus/prometheus/model/labels"

	"github.com/opsviz/metvis/pkg/matcher"
)

// Selector reports whether a sample's label set is kept.
type Selector interface {
	Matches(lbs labels.Labels) bool
}

const (
	OpEqual             = "="
	OpNegEqual          = "!="
	OpRegexp            = "=~"
	OpNegRegexp         = "!~"
	OpSimplePatterns    = "=*"
	OpNegSimplePatterns = "!*"
)

type labelSelector struct {
	name string
	m    matcher.Matcher
}

func (s labelSelector) Matches(lbs labels.Labels) bool {
	if v := lbs.Get(s.name); v != "" {
		return s.m.MatchString(v)
	}
	return false
}

// Func adapts a plain function to a Selector.
type Func func(lbs labels.Labels) bool

func (fn Func) Matches(lbs labels.Labels) bool {
	return fn(lbs)
}

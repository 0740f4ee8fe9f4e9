// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import (
	"strings"

	"github.com/prometheus/prometheus/model/labels"
)

// labelKey packs a sorted label set into its canonical identity key.
// Two series are the same series iff their keys are equal.
func labelKey(lbs labels.Labels) string {
	if len(lbs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range lbs {
		b.WriteString(l.Name)
		b.WriteByte('\xff')
		b.WriteString(l.Value)
		b.WriteByte('\xff')
	}
	return b.String()
}

// labelKeyExcluding is labelKey with one dimension skipped.
func labelKeyExcluding(lbs labels.Labels, skip string) string {
	var b strings.Builder
	for _, l := range lbs {
		if l.Name == skip {
			continue
		}
		b.WriteString(l.Name)
		b.WriteByte('\xff')
		b.WriteString(l.Value)
		b.WriteByte('\xff')
	}
	return b.String()
}

// dropLabel returns lbs without the named dimension. The input is sorted,
// so the result stays sorted.
func dropLabel(lbs labels.Labels, name string) labels.Labels {
	if !lbs.Has(name) {
		return lbs
	}
	out := make(labels.Labels, 0, len(lbs)-1)
	for _, l := range lbs {
		if l.Name != name {
			out = append(out, l)
		}
	}
	return out
}

// projectLabels keeps only the dimensions present in keep.
func projectLabels(lbs labels.Labels, keep map[string]bool) labels.Labels {
	out := make(labels.Labels, 0, len(lbs))
	for _, l := range lbs {
		if keep[l.Name] {
			out = append(out, l)
		}
	}
	return out
}

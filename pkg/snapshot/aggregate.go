// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import "sort"

// AggregateScalars collapses every label dimension not in keep, summing
// values across each collapsed group. When keep covers all of labelNames
// the input is returned as is; the unaggregated view depends on that
// identity, not just on the saved work.
func AggregateScalars(series []ScalarSeries, labelNames, keep []string) []ScalarSeries {
	if coversAll(labelNames, keep) {
		return series
	}

	keepSet := toSet(keep)
	var order []string
	groups := make(map[string]*ScalarSeries)

	for _, s := range series {
		projected := projectLabels(s.Labels, keepSet)
		key := labelKey(projected)
		g, ok := groups[key]
		if !ok {
			groups[key] = &ScalarSeries{Labels: projected, Value: s.Value}
			order = append(order, key)
			continue
		}
		g.Value += s.Value
	}

	out := make([]ScalarSeries, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}

// AggregateHistograms collapses every label dimension not in keep. Sums
// and counts add up across each group; de-cumulated buckets merge by
// exact upper bound, and cumulative buckets are rebuilt from the merged
// occupancy so the monotonicity invariant holds on the output too.
func AggregateHistograms(series []HistogramSeries, labelNames, keep []string) []HistogramSeries {
	if coversAll(labelNames, keep) {
		return series
	}

	type histGroup struct {
		hs     HistogramSeries
		counts map[float64]float64
	}

	keepSet := toSet(keep)
	var order []string
	groups := make(map[string]*histGroup)

	for _, s := range series {
		projected := projectLabels(s.Labels, keepSet)
		key := labelKey(projected)
		g, ok := groups[key]
		if !ok {
			g = &histGroup{
				hs:     HistogramSeries{Labels: projected},
				counts: make(map[float64]float64),
			}
			groups[key] = g
			order = append(order, key)
		}

		if s.HasSum {
			g.hs.Sum += s.Sum
			g.hs.HasSum = true
		}
		if s.HasCount {
			g.hs.Count += s.Count
			g.hs.HasCount = true
		}
		for _, bc := range s.BucketCounts {
			g.counts[bc.UpperBound] += bc.Count
		}
	}

	out := make([]HistogramSeries, 0, len(order))
	for _, key := range order {
		g := groups[key]

		bounds := make([]float64, 0, len(g.counts))
		for le := range g.counts {
			bounds = append(bounds, le)
		}
		sort.Float64s(bounds)

		var running float64
		g.hs.BucketCounts = make([]BucketCount, 0, len(bounds))
		g.hs.Buckets = make([]Bucket, 0, len(bounds))
		for _, le := range bounds {
			count := g.counts[le]
			running += count
			g.hs.BucketCounts = append(g.hs.BucketCounts, BucketCount{UpperBound: le, Count: count})
			g.hs.Buckets = append(g.hs.Buckets, Bucket{UpperBound: le, CumulativeCount: running})
		}

		out = append(out, g.hs)
	}
	return out
}

// coversAll reports whether keep contains every name in all.
func coversAll(all, keep []string) bool {
	keepSet := toSet(keep)
	for _, name := range all {
		if !keepSet[name] {
			return false
		}
	}
	return true
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

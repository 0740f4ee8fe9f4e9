// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import "math"

// DeltaScalars enriches every current series that has a previous series
// with an identical label set. With no previous series or a non-positive
// interval the input is returned untouched; a first-ever snapshot is not
// an error and must never divide by zero. Negative deltas (counter
// resets) are preserved as-is.
func DeltaScalars(curr, prev []ScalarSeries, dtSeconds float64) []ScalarSeries {
	if len(prev) == 0 || !(dtSeconds > 0) {
		return curr
	}

	prevValue := make(map[string]float64, len(prev))
	for _, p := range prev {
		prevValue[labelKey(p.Labels)] = p.Value
	}

	out := make([]ScalarSeries, len(curr))
	for i, s := range curr {
		out[i] = s
		if pv, ok := prevValue[labelKey(s.Labels)]; ok {
			d := s.Value - pv
			out[i].Rate = &ScalarRate{Delta: d, Rate: d / dtSeconds}
		}
	}
	return out
}

// DeltaHistograms is DeltaScalars for histogram series. The top-level
// count delta keeps its sign, while per-bucket rates clamp negative
// differences to zero: a bucket-level decrease under an assumed-monotonic
// histogram is sampling noise, not signal. Series lacking a count sample
// on either side are left unenriched.
func DeltaHistograms(curr, prev []HistogramSeries, dtSeconds float64) []HistogramSeries {
	if len(prev) == 0 || !(dtSeconds > 0) {
		return curr
	}

	prevByKey := make(map[string]*HistogramSeries, len(prev))
	for i := range prev {
		prevByKey[labelKey(prev[i].Labels)] = &prev[i]
	}

	out := make([]HistogramSeries, len(curr))
	for i, s := range curr {
		out[i] = s

		p, ok := prevByKey[labelKey(s.Labels)]
		if !ok || !s.HasCount || !p.HasCount {
			continue
		}

		deltaCount := s.Count - p.Count
		rate := &HistogramRate{
			DeltaCount: deltaCount,
			ObsRate:    deltaCount / dtSeconds,
			Buckets:    make([]BucketCount, len(s.BucketCounts)),
		}

		prevCount := make(map[float64]float64, len(p.BucketCounts))
		for _, bc := range p.BucketCounts {
			prevCount[bc.UpperBound] = bc.Count
		}
		for j, bc := range s.BucketCounts {
			rate.Buckets[j] = BucketCount{
				UpperBound: bc.UpperBound,
				Count:      math.Max(0, (bc.Count-prevCount[bc.UpperBound])/dtSeconds),
			}
		}

		out[i].Rate = rate
	}
	return out
}

// DeltaFamily projects both sides of one family pair onto the same
// keep-label set, then enriches the current side with delta/rate fields.
// A nil keep list skips aggregation entirely; a nil previous family (new
// family, or first snapshot) yields the aggregated current side
// unenriched.
func DeltaFamily(curr, prev *Family, keep []string, dtSeconds float64) *Family {
	out := &Family{
		Name:       curr.Name,
		Help:       curr.Help,
		Type:       curr.Type,
		LabelNames: curr.LabelNames,
		Samples:    curr.Samples,
	}

	scalars := curr.Scalars
	hists := curr.Histograms
	if keep != nil {
		scalars = AggregateScalars(scalars, curr.LabelNames, keep)
		hists = AggregateHistograms(hists, curr.LabelNames, keep)
	}

	if prev != nil {
		prevScalars := prev.Scalars
		prevHists := prev.Histograms
		if keep != nil {
			prevScalars = AggregateScalars(prevScalars, prev.LabelNames, keep)
			prevHists = AggregateHistograms(prevHists, prev.LabelNames, keep)
		}
		scalars = DeltaScalars(scalars, prevScalars, dtSeconds)
		hists = DeltaHistograms(hists, prevHists, dtSeconds)
	}

	out.Scalars = scalars
	out.Histograms = hists
	return out
}

// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import (
	"math"
	"sort"
	"strconv"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"

	"github.com/opsviz/metvis/pkg/prometheus"
)

const bucketLabel = "le"

type (
	// ScalarSeries is one counter/gauge/untyped time series: a label
	// combination and its value. Rate is attached by the delta engine and
	// stays nil for unmatched series.
	ScalarSeries struct {
		Labels labels.Labels
		Value  float64
		Rate   *ScalarRate
	}

	// ScalarRate is the change of a scalar series between two snapshots.
	// Delta keeps its sign: a counter reset shows up as a negative delta.
	ScalarRate struct {
		Delta float64
		Rate  float64
	}

	// Bucket is a cumulative histogram bucket as emitted by the source.
	Bucket struct {
		UpperBound      float64
		CumulativeCount float64
	}

	// BucketCount is the de-cumulated occupancy of one bucket interval.
	BucketCount struct {
		UpperBound float64
		Count      float64
	}

	// HistogramSeries is one histogram time series: buckets sorted
	// ascending by upper bound (+Inf last), their de-cumulated
	// counterparts, and the _sum/_count samples when the source emitted
	// them.
	HistogramSeries struct {
		Labels       labels.Labels
		Buckets      []Bucket
		BucketCounts []BucketCount
		Sum          float64
		Count        float64
		HasSum       bool
		HasCount     bool
		Rate         *HistogramRate
	}

	// HistogramRate is the change of a histogram series between two
	// snapshots. DeltaCount keeps its sign; per-bucket rates clamp
	// negative differences to zero.
	HistogramRate struct {
		DeltaCount float64
		ObsRate    float64
		Buckets    []BucketCount
	}

	// Family is the series-level view of one metric family, produced from
	// a parsed MetricFamily and read-only afterwards. Non-histogram
	// families populate Scalars, histogram families populate Histograms.
	Family struct {
		Name       string
		Help       string
		Type       model.MetricType
		LabelNames []string
		Scalars    []ScalarSeries
		Histograms []HistogramSeries
		Samples    []prometheus.Sample
	}
)

// Average returns sum/count, or ok=false when the source did not emit
// both or the count is zero.
func (h *HistogramSeries) Average() (float64, bool) {
	if !h.HasSum || !h.HasCount || h.Count <= 0 {
		return 0, false
	}
	return h.Sum / h.Count, true
}

// BuildFamily computes the series-level view of one parsed family.
func BuildFamily(mf *prometheus.MetricFamily) *Family {
	f := &Family{
		Name:    mf.Name(),
		Help:    mf.Help(),
		Type:    mf.Type(),
		Samples: mf.Samples(),
	}

	if f.Type == model.MetricTypeHistogram {
		f.LabelNames = familyLabelNames(mf.Samples(), bucketLabel)
		f.Histograms = buildHistogramSeries(mf)
	} else {
		f.LabelNames = familyLabelNames(mf.Samples(), "")
		f.Scalars = buildScalarSeries(mf)
	}

	return f
}

// familyLabelNames returns the sorted union of label keys across samples,
// optionally excluding one synthetic dimension.
func familyLabelNames(samples []prometheus.Sample, exclude string) []string {
	seen := make(map[string]bool)
	for _, s := range samples {
		for _, l := range s.Labels {
			if l.Name != exclude {
				seen[l.Name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildScalarSeries keeps samples named after the family itself (or the
// family name plus the counter suffix), one series per distinct label
// combination. A duplicate label combination overwrites the earlier value
// (last one wins).
func buildScalarSeries(mf *prometheus.MetricFamily) []ScalarSeries {
	name := mf.Name()

	var out []ScalarSeries
	idx := make(map[string]int)

	for _, s := range mf.Samples() {
		if s.Name != name && s.Name != name+"_total" {
			continue
		}
		key := labelKey(s.Labels)
		if i, ok := idx[key]; ok {
			out[i].Value = s.Value
			continue
		}
		idx[key] = len(out)
		out = append(out, ScalarSeries{Labels: s.Labels, Value: s.Value})
	}

	return out
}

// buildHistogramSeries groups _bucket/_sum/_count samples by their label
// set minus the bucket dimension, sorts buckets ascending and de-cumulates
// them.
func buildHistogramSeries(mf *prometheus.MetricFamily) []HistogramSeries {
	name := mf.Name()

	var order []string
	groups := make(map[string]*HistogramSeries)

	get := func(s prometheus.Sample) *HistogramSeries {
		key := labelKeyExcluding(s.Labels, bucketLabel)
		g, ok := groups[key]
		if !ok {
			g = &HistogramSeries{Labels: dropLabel(s.Labels, bucketLabel)}
			groups[key] = g
			order = append(order, key)
		}
		return g
	}

	for _, s := range mf.Samples() {
		switch s.Name {
		case name + "_bucket":
			le, err := strconv.ParseFloat(s.Labels.Get(bucketLabel), 64)
			if err != nil {
				continue // bucket sample without a usable le
			}
			g := get(s)
			g.Buckets = append(g.Buckets, Bucket{UpperBound: le, CumulativeCount: s.Value})
		case name + "_sum":
			g := get(s)
			g.Sum = s.Value
			g.HasSum = true
		case name + "_count":
			g := get(s)
			g.Count = s.Value
			g.HasCount = true
		}
	}

	out := make([]HistogramSeries, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g.Buckets, func(i, j int) bool {
			return g.Buckets[i].UpperBound < g.Buckets[j].UpperBound
		})
		g.BucketCounts = deCumulate(g.Buckets)
		out = append(out, *g)
	}

	return out
}

// deCumulate converts cumulative bucket counts into per-bucket occupancy.
// Negative differences (non-monotonic input) clamp to zero.
func deCumulate(buckets []Bucket) []BucketCount {
	out := make([]BucketCount, len(buckets))
	var prev float64
	for i, b := range buckets {
		out[i] = BucketCount{
			UpperBound: b.UpperBound,
			Count:      math.Max(0, b.CumulativeCount-prev),
		}
		prev = b.CumulativeCount
	}
	return out
}

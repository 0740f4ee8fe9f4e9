// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/opsviz/metvis/pkg/snapshot"
)

type report struct {
	Timestamp time.Time     `json:"timestamp"`
	Interval  float64       `json:"interval_seconds,omitempty"`
	Groups    []reportGroup `json:"groups"`
}

type reportGroup struct {
	Prefix   string         `json:"prefix"`
	Families []reportFamily `json:"families"`
}

type reportFamily struct {
	Name       string            `json:"name"`
	Help       string            `json:"help,omitempty"`
	Type       string            `json:"type"`
	Scalars    []reportScalar    `json:"scalars,omitempty"`
	Histograms []reportHistogram `json:"histograms,omitempty"`
}

type reportScalar struct {
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
	Delta  *float64          `json:"delta,omitempty"`
	Rate   *float64          `json:"rate,omitempty"`
}

type reportHistogram struct {
	Labels      map[string]string `json:"labels,omitempty"`
	Buckets     []reportBucket    `json:"buckets"`
	Sum         *float64          `json:"sum,omitempty"`
	Count       *float64          `json:"count,omitempty"`
	Average     *float64          `json:"average,omitempty"`
	DeltaCount  *float64          `json:"delta_count,omitempty"`
	ObsRate     *float64          `json:"observation_rate,omitempty"`
	BucketRates []reportBucket    `json:"bucket_rates,omitempty"`
}

type reportBucket struct {
	UpperBound float64 `json:"le"`
	Count      float64 `json:"count"`
}

// buildReport runs the delta engine over every family of the current
// snapshot and arranges the result by display group, groups and families
// alphabetically.
func buildReport(curr, prev *snapshot.Snapshot, keep []string, dtSeconds float64) *report {
	r := &report{Timestamp: curr.Timestamp, Interval: dtSeconds}

	prefixes := make([]string, 0, len(curr.Groups))
	for prefix := range curr.Groups {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		group := reportGroup{Prefix: prefix}
		for _, name := range curr.Groups[prefix] {
			var prevFam *snapshot.Family
			if prev != nil {
				prevFam = prev.Families[name]
			}
			fam := snapshot.DeltaFamily(curr.Families[name], prevFam, keep, dtSeconds)
			group.Families = append(group.Families, buildReportFamily(fam))
		}
		r.Groups = append(r.Groups, group)
	}

	return r
}

func buildReportFamily(fam *snapshot.Family) reportFamily {
	rf := reportFamily{
		Name: fam.Name,
		Help: fam.Help,
		Type: string(fam.Type),
	}

	for _, s := range fam.Scalars {
		rs := reportScalar{Labels: labelsToMap(s.Labels), Value: s.Value}
		if s.Rate != nil {
			rs.Delta = ptr(s.Rate.Delta)
			rs.Rate = ptr(s.Rate.Rate)
		}
		rf.Scalars = append(rf.Scalars, rs)
	}

	for i := range fam.Histograms {
		h := &fam.Histograms[i]
		rh := reportHistogram{Labels: labelsToMap(h.Labels)}
		for _, bc := range h.BucketCounts {
			rh.Buckets = append(rh.Buckets, reportBucket{UpperBound: bc.UpperBound, Count: bc.Count})
		}
		if h.HasSum {
			rh.Sum = ptr(h.Sum)
		}
		if h.HasCount {
			rh.Count = ptr(h.Count)
		}
		if avg, ok := h.Average(); ok {
			rh.Average = ptr(avg)
		}
		if h.Rate != nil {
			rh.DeltaCount = ptr(h.Rate.DeltaCount)
			rh.ObsRate = ptr(h.Rate.ObsRate)
			for _, bc := range h.Rate.Buckets {
				rh.BucketRates = append(rh.BucketRates, reportBucket{UpperBound: bc.UpperBound, Count: bc.Count})
			}
		}
		rf.Histograms = append(rf.Histograms, rh)
	}

	return rf
}

func writeJSON(w io.Writer, r *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeTable(w io.Writer, r *report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "GROUP\tFAMILY\tTYPE\tLABELS\tVALUE\tRATE/s")

	for _, group := range r.Groups {
		for _, fam := range group.Families {
			for _, s := range fam.Scalars {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					group.Prefix, fam.Name, fam.Type,
					formatLabels(s.Labels), formatValue(s.Value), formatRate(s.Rate))
			}
			for _, h := range fam.Histograms {
				value := "-"
				if h.Average != nil {
					value = "avg=" + formatValue(*h.Average)
				} else if h.Count != nil {
					value = "count=" + formatValue(*h.Count)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					group.Prefix, fam.Name, fam.Type,
					formatLabels(h.Labels), value, formatRate(h.ObsRate))
			}
		}
	}

	return tw.Flush()
}

func formatLabels(set map[string]string) string {
	if len(set) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+set[k])
	}
	return strings.Join(parts, ",")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatRate(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}

func ptr(v float64) *float64 { return &v }

func labelsToMap(lbls labels.Labels) map[string]string {
	if lbls.Len() == 0 {
		return nil
	}
	out := make(map[string]string, lbls.Len())
	lbls.Range(func(l labels.Label) {
		out[l.Name] = l.Value
	})
	return out
}

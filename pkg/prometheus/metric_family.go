// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"sort"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
)

type (
	// Sample is one parsed sample line: metric name, label set and value.
	// RawLine keeps the original text so consumers can export a family
	// without re-serializing parsed numbers.
	Sample struct {
		Name    string
		Labels  labels.Labels
		Value   float64
		RawLine string
	}

	// MetricFamily is the set of all samples sharing one declared metric
	// name, type and help text. It is fully populated by the end of one
	// parse pass and treated as read-only afterwards.
	MetricFamily struct {
		name    string
		help    string
		typ     model.MetricType
		samples []Sample
	}

	// MetricFamilies is the result of one parse pass, keyed by family name.
	MetricFamilies map[string]*MetricFamily
)

func (mf *MetricFamily) Name() string          { return mf.name }
func (mf *MetricFamily) Help() string          { return mf.help }
func (mf *MetricFamily) Type() model.MetricType { return mf.typ }
func (mf *MetricFamily) Samples() []Sample     { return mf.samples }

func (mfs MetricFamilies) Len() int {
	return len(mfs)
}

func (mfs MetricFamilies) Get(name string) *MetricFamily {
	mf, ok := mfs[name]
	if !ok {
		return nil
	}
	return mf
}

func (mfs MetricFamilies) GetGauge(name string) *MetricFamily {
	return mfs.getTyped(name, model.MetricTypeGauge)
}

func (mfs MetricFamilies) GetCounter(name string) *MetricFamily {
	return mfs.getTyped(name, model.MetricTypeCounter)
}

func (mfs MetricFamilies) GetHistogram(name string) *MetricFamily {
	return mfs.getTyped(name, model.MetricTypeHistogram)
}

func (mfs MetricFamilies) GetSummary(name string) *MetricFamily {
	return mfs.getTyped(name, model.MetricTypeSummary)
}

func (mfs MetricFamilies) getTyped(name string, typ model.MetricType) *MetricFamily {
	if mf := mfs.Get(name); mf != nil && mf.typ == typ {
		return mf
	}
	return nil
}

// Names returns sorted family names.
func (mfs MetricFamilies) Names() []string {
	names := make([]string, 0, len(mfs))
	for name := range mfs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

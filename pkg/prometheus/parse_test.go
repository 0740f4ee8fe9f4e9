// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"os"
	"testing"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsviz/metvis/pkg/prometheus/selector"
)

var (
	dataMultilineHelp, _ = os.ReadFile("testdata/multiline-help.txt")
	dataGaugeMeta, _     = os.ReadFile("testdata/gauge-meta.txt")
	dataGaugeNoMeta, _   = os.ReadFile("testdata/gauge-no-meta.txt")
	dataCounterMeta, _   = os.ReadFile("testdata/counter-meta.txt")
	dataHistogramMeta, _ = os.ReadFile("testdata/histogram-meta.txt")
	dataSummaryMeta, _   = os.ReadFile("testdata/summary-meta.txt")
)

func Test_testParseDataIsValid(t *testing.T) {
	for name, data := range map[string][]byte{
		"dataMultilineHelp": dataMultilineHelp,
		"dataGaugeMeta":     dataGaugeMeta,
		"dataGaugeNoMeta":   dataGaugeNoMeta,
		"dataCounterMeta":   dataCounterMeta,
		"dataHistogramMeta": dataHistogramMeta,
		"dataSummaryMeta":   dataSummaryMeta,
	} {
		require.NotNilf(t, data, name)
	}
}

func TestParser_Parse(t *testing.T) {
	tests := map[string]struct {
		input []byte
		want  MetricFamilies
	}{
		"gauge with meta": {
			input: dataGaugeMeta,
			want: MetricFamilies{
				"test_gauge_metric_1": {
					name: "test_gauge_metric_1",
					help: "Test Gauge Metric 1",
					typ:  model.MetricTypeGauge,
					samples: []Sample{
						{
							Name:    "test_gauge_metric_1",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   11,
							RawLine: `test_gauge_metric_1{label1="value1"} 11`,
						},
						{
							Name:    "test_gauge_metric_1",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value2"}),
							Value:   12,
							RawLine: `test_gauge_metric_1{label1="value2"} 12`,
						},
					},
				},
			},
		},
		"gauge without meta": {
			input: dataGaugeNoMeta,
			want: MetricFamilies{
				"test_gauge_no_meta_metric_1": {
					name: "test_gauge_no_meta_metric_1",
					typ:  model.MetricTypeUnknown,
					samples: []Sample{
						{
							Name:    "test_gauge_no_meta_metric_1",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   11,
							RawLine: `test_gauge_no_meta_metric_1{label1="value1"} 11`,
						},
						{
							Name:    "test_gauge_no_meta_metric_1",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value2"}),
							Value:   12,
							RawLine: `test_gauge_no_meta_metric_1{label1="value2"} 12`,
						},
					},
				},
			},
		},
		"counter samples resolve to the declared family via the _total suffix": {
			input: dataCounterMeta,
			want: MetricFamilies{
				"test_counter_metric_1": {
					name: "test_counter_metric_1",
					help: "Test Counter Metric 1",
					typ:  model.MetricTypeCounter,
					samples: []Sample{
						{
							Name:    "test_counter_metric_1_total",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   11,
							RawLine: `test_counter_metric_1_total{label1="value1"} 11`,
						},
						{
							Name:    "test_counter_metric_1_total",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value2"}),
							Value:   12,
							RawLine: `test_counter_metric_1_total{label1="value2"} 12`,
						},
					},
				},
			},
		},
		"histogram parts resolve to the declared family": {
			input: dataHistogramMeta,
			want: MetricFamilies{
				"test_histogram_1_duration_seconds": {
					name: "test_histogram_1_duration_seconds",
					help: "Test Histogram Metric 1",
					typ:  model.MetricTypeHistogram,
					samples: []Sample{
						{
							Name: "test_histogram_1_duration_seconds_bucket",
							Labels: labels.New(
								labels.Label{Name: "label1", Value: "value1"},
								labels.Label{Name: "le", Value: "0.1"},
							),
							Value:   1,
							RawLine: `test_histogram_1_duration_seconds_bucket{label1="value1",le="0.1"} 1`,
						},
						{
							Name: "test_histogram_1_duration_seconds_bucket",
							Labels: labels.New(
								labels.Label{Name: "label1", Value: "value1"},
								labels.Label{Name: "le", Value: "0.5"},
							),
							Value:   5,
							RawLine: `test_histogram_1_duration_seconds_bucket{label1="value1",le="0.5"} 5`,
						},
						{
							Name: "test_histogram_1_duration_seconds_bucket",
							Labels: labels.New(
								labels.Label{Name: "label1", Value: "value1"},
								labels.Label{Name: "le", Value: "+Inf"},
							),
							Value:   6,
							RawLine: `test_histogram_1_duration_seconds_bucket{label1="value1",le="+Inf"} 6`,
						},
						{
							Name:    "test_histogram_1_duration_seconds_sum",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   0.00147889,
							RawLine: `test_histogram_1_duration_seconds_sum{label1="value1"} 0.00147889`,
						},
						{
							Name:    "test_histogram_1_duration_seconds_count",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   6,
							RawLine: `test_histogram_1_duration_seconds_count{label1="value1"} 6`,
						},
					},
				},
			},
		},
		"multiline help is joined": {
			input: dataMultilineHelp,
			want: MetricFamilies{
				"test_gauge_metric_1": {
					name: "test_gauge_metric_1",
					help: "First line. Second line.",
					typ:  model.MetricTypeGauge,
					samples: []Sample{
						{
							Name:    "test_gauge_metric_1",
							Labels:  labels.New(labels.Label{Name: "label1", Value: "value1"}),
							Value:   11,
							RawLine: `test_gauge_metric_1{label1="value1"} 11`,
						},
					},
				},
			},
		},
		"no labels and exposition timestamps": {
			input: []byte("metric_without_labels 3.14 1716486130\n"),
			want: MetricFamilies{
				"metric_without_labels": {
					name: "metric_without_labels",
					typ:  model.MetricTypeUnknown,
					samples: []Sample{
						{
							Name:    "metric_without_labels",
							Labels:  labels.New(),
							Value:   3.14,
							RawLine: "metric_without_labels 3.14 1716486130",
						},
					},
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var p Parser

			assert.Equal(t, test.want, p.Parse(test.input))
		})
	}
}

func TestParser_Parse_suffixPriority(t *testing.T) {
	// A sample whose full name owns a declared family must not be folded
	// into the suffix-stripped one.
	input := []byte(`
# TYPE test_metric histogram
# TYPE test_metric_bucket gauge
test_metric_bucket{le="1"} 5
`)

	mfs := ParseFamilies(input)

	require.NotNil(t, mfs.Get("test_metric_bucket"))
	assert.Len(t, mfs.Get("test_metric_bucket").Samples(), 1)
	assert.Empty(t, mfs.Get("test_metric").Samples())
}

func TestParser_Parse_malformedLinesDropped(t *testing.T) {
	input := []byte(`
ok_metric 1
no_value_metric
bad_value_metric{label1="value1"} not_a_number
unterminated_labels{label1="value1" 5
{label1="value1"} 5
ok_metric 2
`)

	var p Parser
	mfs := p.Parse(input)

	assert.Equal(t, 4, p.Dropped())
	require.NotNil(t, mfs.Get("ok_metric"))
	assert.Len(t, mfs.Get("ok_metric").Samples(), 2)
	assert.Equal(t, 1, mfs.Len())
}

func TestParser_Parse_withSelector(t *testing.T) {
	input := []byte(`
node_cpu_seconds_total{cpu="0"} 100
node_memory_bytes 2048
http_requests_total{code="200"} 10
`)

	sr, err := selector.Parse("node_*")
	require.NoError(t, err)

	p := Parser{Selector: sr}
	mfs := p.Parse(input)

	assert.Equal(t, 2, mfs.Len())
	assert.NotNil(t, mfs.Get("node_cpu_seconds_total"))
	assert.NotNil(t, mfs.Get("node_memory_bytes"))
	assert.Nil(t, mfs.Get("http_requests_total"))
	assert.Equal(t, 0, p.Dropped())
}

func TestParser_Parse_withSelectorDropsMetadataOnlyFamilies(t *testing.T) {
	input := []byte(`
# HELP node_cpu_seconds_total Seconds the CPUs spent.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0"} 100
# HELP go_goroutines Number of goroutines.
# TYPE go_goroutines gauge
go_goroutines 42
`)

	sr, err := selector.Parse("node_*")
	require.NoError(t, err)

	p := Parser{Selector: sr}
	mfs := p.Parse(input)

	// go_goroutines lost all its samples to the selector, so its
	// HELP/TYPE metadata must not leave an empty family behind
	assert.Equal(t, 1, mfs.Len())
	require.NotNil(t, mfs.Get("node_cpu_seconds_total"))
	assert.Equal(t, "Seconds the CPUs spent.", mfs.Get("node_cpu_seconds_total").Help())
	assert.Nil(t, mfs.Get("go_goroutines"))
}

func TestParser_Parse_resetsStateBetweenRuns(t *testing.T) {
	var p Parser

	p.Parse([]byte("broken\n"))
	assert.Equal(t, 1, p.Dropped())

	p.Parse([]byte("fine 1\n"))
	assert.Equal(t, 0, p.Dropped())
}

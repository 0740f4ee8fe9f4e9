// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"strconv"
	"strings"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"

	"github.com/opsviz/metvis/pkg/prometheus/selector"
)

// familySuffixes are candidate suffixes checked in priority order when a
// sample name has no exact family match (histogram/summary parts first,
// then the counter convention).
var familySuffixes = []string{"_bucket", "_sum", "_count", "_total"}

// Parser turns Prometheus exposition text into metric families.
//
// The zero value is ready to use. A parse pass never fails on data:
// malformed sample lines are dropped one at a time and counted. Selector,
// when set, is applied to every sample's label set (with the metric name
// addressable as __name__) before family assembly.
type Parser struct {
	Selector selector.Selector

	dropped int
}

// ParseFamilies parses text with a zero-value Parser.
func ParseFamilies(text []byte) MetricFamilies {
	var p Parser
	return p.Parse(text)
}

// Parse parses one text blob into metric families.
func (p *Parser) Parse(text []byte) MetricFamilies {
	p.dropped = 0
	mfs := make(MetricFamilies)

	for _, line := range strings.Split(string(text), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case line[0] == '#':
			p.parseComment(mfs, line)
		default:
			p.parseSampleLine(mfs, line)
		}
	}

	// HELP/TYPE directives create families eagerly. With a selector in
	// play a family left without samples was filtered out entirely and
	// its metadata goes with it.
	if p.Selector != nil {
		for name, mf := range mfs {
			if len(mf.samples) == 0 {
				delete(mfs, name)
			}
		}
	}

	return mfs
}

// Dropped reports how many malformed sample lines the last Parse discarded.
func (p *Parser) Dropped() int {
	return p.dropped
}

func (p *Parser) parseComment(mfs MetricFamilies, line string) {
	rest := strings.TrimSpace(line[1:])

	switch {
	case strings.HasPrefix(rest, "HELP "):
		p.parseHelp(mfs, rest[len("HELP "):])
	case strings.HasPrefix(rest, "TYPE "):
		p.parseType(mfs, rest[len("TYPE "):])
	default:
		// Plain comment. Nothing to do.
	}
}

func (p *Parser) parseHelp(mfs MetricFamilies, text string) {
	text = strings.TrimSpace(text)

	name, help, ok := strings.Cut(text, " ")
	if !ok || name == "" {
		return
	}

	mf := getOrCreate(mfs, name)
	// Help text is kept verbatim past the first delimiting space.
	// Repeated HELP lines for one family are joined.
	if mf.help == "" {
		mf.help = help
	} else {
		mf.help += " " + help
	}
}

func (p *Parser) parseType(mfs MetricFamilies, text string) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return
	}

	mf := getOrCreate(mfs, fields[0])
	mf.typ = metricType(fields[1])
}

func (p *Parser) parseSampleLine(mfs MetricFamilies, line string) {
	name, lbls, value, ok := splitSampleLine(line)
	if !ok {
		p.dropped++
		return
	}

	if p.Selector != nil {
		full := labels.New(append(lbls, labels.Label{Name: labels.MetricName, Value: name})...)
		if !p.Selector.Matches(full) {
			return
		}
	}

	mf := getOrCreate(mfs, resolveFamilyName(mfs, name))
	mf.samples = append(mf.samples, Sample{
		Name:    name,
		Labels:  labels.New(lbls...),
		Value:   value,
		RawLine: line,
	})
}

// resolveFamilyName maps a sample's metric name onto its family: exact
// name first, then the name with a known suffix stripped, provided a
// family was already declared under the stripped name. Anything else
// becomes its own implicit family.
func resolveFamilyName(mfs MetricFamilies, metric string) string {
	if _, ok := mfs[metric]; ok {
		return metric
	}
	for _, suffix := range familySuffixes {
		if base, ok := strings.CutSuffix(metric, suffix); ok && base != "" {
			if _, ok := mfs[base]; ok {
				return base
			}
		}
	}
	return metric
}

// splitSampleLine splits `metric_name{label="value",...} number` (labels
// optional) into its parts. Label values are delimited by double quotes
// with no escape processing. ok is false when the label block is
// unterminated or the value token is not numeric.
func splitSampleLine(line string) (name string, lbls []labels.Label, value float64, ok bool) {
	rest := line

	if idx := strings.IndexByte(line, '{'); idx != -1 {
		name = strings.TrimSpace(line[:idx])
		var done bool
		lbls, rest, done = splitLabels(line[idx+1:])
		if !done {
			return "", nil, 0, false
		}
	} else {
		sp := strings.IndexAny(line, " \t")
		if sp == -1 {
			return "", nil, 0, false
		}
		name, rest = line[:sp], line[sp+1:]
	}

	if name == "" {
		return "", nil, 0, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, 0, false
	}
	// Anything past the value token (an exposition timestamp) is ignored.
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return "", nil, 0, false
	}

	return name, lbls, v, true
}

// splitLabels consumes `label="value",...}` and returns the parsed pairs
// plus whatever follows the closing brace. done is false when the block
// never closes.
func splitLabels(s string) (lbls []labels.Label, rest string, done bool) {
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return nil, "", false
		}
		if s[0] == '}' {
			return lbls, s[1:], true
		}

		eq := strings.IndexByte(s, '=')
		if eq == -1 {
			return nil, "", false
		}
		key := strings.TrimSpace(s[:eq])
		s = s[eq+1:]

		if key == "" || s == "" || s[0] != '"' {
			return nil, "", false
		}
		s = s[1:]

		q := strings.IndexByte(s, '"')
		if q == -1 {
			return nil, "", false
		}
		lbls = append(lbls, labels.Label{Name: key, Value: s[:q]})
		s = s[q+1:]

		s = strings.TrimLeft(s, " \t")
		if s != "" && s[0] == ',' {
			s = s[1:]
		}
	}
}

func getOrCreate(mfs MetricFamilies, name string) *MetricFamily {
	mf, ok := mfs[name]
	if !ok {
		mf = &MetricFamily{name: name, typ: model.MetricTypeUnknown}
		mfs[name] = mf
	}
	return mf
}

func metricType(s string) model.MetricType {
	switch strings.ToLower(s) {
	case "counter":
		return model.MetricTypeCounter
	case "gauge":
		return model.MetricTypeGauge
	case "histogram":
		return model.MetricTypeHistogram
	case "summary":
		return model.MetricTypeSummary
	default:
		return model.MetricTypeUnknown
	}
}

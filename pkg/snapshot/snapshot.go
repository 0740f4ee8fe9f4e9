// SPDX-License-Identifier: GPL-3.0-or-later

// Package snapshot turns parsed metric families into point-in-time
// snapshots of typed series and computes rollups and rates over them.
// Every operation is a pure function from immutable inputs to a new
// structure; the only stateful piece is History, owned by the caller.
package snapshot

import (
	"time"

	"github.com/opsviz/metvis/pkg/prometheus"
	"github.com/opsviz/metvis/pkg/prometheus/selector"
)

// Snapshot is the complete output of one parse pass, paired with the
// wall-clock time it was captured. Immutable once produced.
type Snapshot struct {
	Families  map[string]*Family
	Groups    map[string][]string
	Timestamp time.Time
}

// Config configures an Engine.
type Config struct {
	// Selector, when set, drops non-matching samples before family
	// assembly.
	Selector selector.Selector
	// Namespace is handed to the Grouper (see Grouper.Namespace).
	Namespace string
}

// Engine captures snapshots from exposition text. Not safe for concurrent
// Take calls; the snapshots it produces may be shared freely.
type Engine struct {
	grouper Grouper
	parser  prometheus.Parser
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		grouper: Grouper{Namespace: cfg.Namespace},
		parser:  prometheus.Parser{Selector: cfg.Selector},
	}
}

// Take parses one text blob into a snapshot captured at ts.
func (e *Engine) Take(text []byte, ts time.Time) *Snapshot {
	mfs := e.parser.Parse(text)

	snap := &Snapshot{
		Families:  make(map[string]*Family, len(mfs)),
		Groups:    make(map[string][]string),
		Timestamp: ts,
	}

	for _, name := range mfs.Names() {
		snap.Families[name] = BuildFamily(mfs[name])
		prefix := e.grouper.Prefix(name)
		snap.Groups[prefix] = append(snap.Groups[prefix], name)
	}

	return snap
}

// Dropped reports how many malformed sample lines the last Take discarded.
func (e *Engine) Dropped() int {
	return e.parser.Dropped()
}

// History owns the two most recent snapshots, older one out first. The
// zero value is ready to use.
type History struct {
	curr *Snapshot
	prev *Snapshot
}

// Add retains s as the current snapshot, demoting the previous current.
func (h *History) Add(s *Snapshot) {
	h.prev, h.curr = h.curr, s
}

func (h *History) Current() *Snapshot { return h.curr }

func (h *History) Previous() *Snapshot { return h.prev }

// Elapsed returns the seconds between the two retained snapshots, or 0
// when fewer than two have been added.
func (h *History) Elapsed() float64 {
	if h.curr == nil || h.prev == nil {
		return 0
	}
	return h.curr.Timestamp.Sub(h.prev.Timestamp).Seconds()
}

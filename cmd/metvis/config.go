// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/opsviz/metvis/pkg/cli"
	"github.com/opsviz/metvis/pkg/confopt"
	"github.com/opsviz/metvis/pkg/prometheus/selector"
)

type config struct {
	// Selector is the allow/deny form; SelectorExpr is the single-line
	// form from the command line and wins when both are set.
	Selector     selector.Expr    `yaml:"selector"`
	SelectorExpr string           `yaml:"-"`
	KeepLabels   []string         `yaml:"keep_labels"`
	Namespace    string           `yaml:"namespace"`
	Interval     confopt.Duration `yaml:"interval"`
	Format       string           `yaml:"format"`
	LogLevel     string           `yaml:"log_level"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Format: "table"}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Format == "" {
		cfg.Format = "table"
	}

	return cfg, nil
}

// applyCLI overlays command line options onto the file config. Flags left
// at their zero value keep the file's setting.
func (c *config) applyCLI(opts *cli.Option) {
	if opts.Selector != "" {
		c.SelectorExpr = opts.Selector
	}
	if len(opts.KeepLabels) > 0 {
		c.KeepLabels = opts.KeepLabels
	}
	if opts.Namespace != "" {
		c.Namespace = opts.Namespace
	}
	if opts.Interval > 0 {
		c.Interval = confopt.Duration(opts.Interval * float64(time.Second))
	}
	if opts.Format != "" {
		c.Format = opts.Format
	}
}

// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/opsviz/metvis/logger"
	"github.com/opsviz/metvis/pkg/buildinfo"
	"github.com/opsviz/metvis/pkg/cli"
	"github.com/opsviz/metvis/pkg/prometheus/selector"
	"github.com/opsviz/metvis/pkg/snapshot"
)

var log = logger.New().With(slog.String("component", "main"))

func main() {
	opts, files := parseCLI()

	if opts.Version {
		fmt.Printf("metvis, version: %s\n", buildinfo.Version)
		return
	}

	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	cfg, err := loadConfig(opts.ConfFile)
	if err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}
	cfg.applyCLI(opts)

	if cfg.LogLevel != "" && !opts.Debug {
		logger.Level.SetByName(cfg.LogLevel)
	}

	sr, err := buildSelector(cfg)
	if err != nil {
		log.Errorf("selector: %v", err)
		os.Exit(1)
	}

	engine := snapshot.NewEngine(snapshot.Config{
		Selector:  sr,
		Namespace: cfg.Namespace,
	})

	var history snapshot.History

	switch len(files) {
	case 0:
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Errorf("read stdin: %v", err)
			os.Exit(1)
		}
		history.Add(engine.Take(text, time.Now()))
	case 1, 2:
		// Oldest first so the last one added becomes current.
		for i := len(files) - 1; i >= 0; i-- {
			text, ts, err := readSnapshotFile(files[i])
			if err != nil {
				log.Errorf("read %s: %v", files[i], err)
				os.Exit(1)
			}
			history.Add(engine.Take(text, ts))
		}
	default:
		log.Errorf("expected at most two input files, got %d", len(files))
		os.Exit(1)
	}

	if n := engine.Dropped(); n > 0 {
		log.Warningf("dropped %d malformed sample lines", n)
	}

	dt := history.Elapsed()
	if cfg.Interval.Duration() > 0 {
		dt = cfg.Interval.Duration().Seconds()
	}
	log.Debugf("snapshot interval: %.3fs", dt)

	report := buildReport(history.Current(), history.Previous(), cfg.KeepLabels, dt)

	switch cfg.Format {
	case "json":
		err = writeJSON(os.Stdout, report)
	default:
		err = writeTable(os.Stdout, report)
	}
	if err != nil {
		log.Errorf("write output: %v", err)
		os.Exit(1)
	}
}

func parseCLI() (*cli.Option, []string) {
	opt, files, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt, files
}

// readSnapshotFile reads one exposition file and pairs it with the file's
// modification time, the closest thing to a capture timestamp we have.
func readSnapshotFile(path string) ([]byte, time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return text, fi.ModTime(), nil
}

func buildSelector(cfg *config) (selector.Selector, error) {
	if cfg.SelectorExpr != "" {
		return selector.Parse(cfg.SelectorExpr)
	}
	if len(cfg.Selector.Allow) > 0 || len(cfg.Selector.Deny) > 0 {
		return cfg.Selector.Parse()
	}
	return nil, nil
}

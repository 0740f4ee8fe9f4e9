// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"github.com/jessevdk/go-flags"
)

// Option defines command line options.
type Option struct {
	ConfFile   string   `short:"c" long:"config" description:"config file to read"`
	Selector   string   `short:"s" long:"selector" description:"metric selector expression (e.g. 'proc_* !*_seconds')"`
	KeepLabels []string `short:"k" long:"keep-label" description:"label dimension to keep when aggregating (repeatable)"`
	Namespace  string   `short:"n" long:"namespace" description:"metric namespace marker used for grouping"`
	Interval   float64  `short:"i" long:"interval" description:"seconds between the two snapshots (overrides file timestamps)"`
	// No struct-tag default: an unset flag must stay empty so the config
	// file's format survives the overlay.
	Format string `short:"f" long:"format" description:"output format" choice:"table" choice:"json"`
	Debug      bool     `short:"d" long:"debug" description:"debug mode"`
	Version    bool     `short:"v" long:"version" description:"display the version and exit"`
}

// Parse returns parsed command-line flags in Option struct along with the
// positional arguments (one or two exposition files; none means stdin).
func Parse(args []string) (*Option, []string, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = "metvis"
	parser.Usage = "[OPTIONS] [FILE [PREV_FILE]]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) > 0 {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		rest = nil
	}

	return opt, rest, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

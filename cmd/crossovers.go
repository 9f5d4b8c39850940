package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/TomaszMurek1/stock-scout-sub002/renderer"
	"github.com/google/subcommands"
)

type crossoversCmd struct {
	inputs
	instrument string
	short      int
	long       int
	touches    bool
	json       bool
}

func (*crossoversCmd) Name() string     { return "crossovers" }
func (*crossoversCmd) Synopsis() string { return "detect moving average crossovers" }
func (*crossoversCmd) Usage() string {
	return `crossovers -rows <glob> [-path <jsonpath>] | -i <instrument> [-short <n>] [-long <n>] [-touches] [-json]

  Displays the days where the short moving average crosses the long one.
  Averages missing from the rows are computed over the given windows.
`
}

func (c *crossoversCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rows, "rows", "", "comma-separated globs of indicator row files (JSON or JSONL)")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.rows")
	f.StringVar(&c.instrument, "i", "", "instrument whose rows are read from the database")
	f.IntVar(&c.short, "short", 0, "short window in rows (default from the configuration)")
	f.IntVar(&c.long, "long", 0, "long window in rows (default from the configuration)")
	f.BoolVar(&c.touches, "touches", false, "also count a crossing that goes through equality")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a report")
}

func (c *crossoversCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	short, long := cfg.ShortWindow, cfg.LongWindow
	if c.short != 0 {
		short = c.short
	}
	if c.long != 0 {
		long = c.long
	}
	opts := cfg.CrossoverOptions()
	if c.touches && !cfg.CountTouches {
		opts = append(opts, portfolio.CountTouches())
	}

	rows, err := c.indicatorRows(ctx, cfg, c.instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rows: %v\n", err)
		return subcommands.ExitFailure
	}
	rows, err = portfolio.MovingAverages(rows, short, long)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing moving averages: %v\n", err)
		return subcommands.ExitFailure
	}
	events, err := portfolio.RowCrossovers(rows, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error detecting crossovers: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("rows", len(rows)).Int("events", len(events)).Int("short", short).Int("long", long).Msg("crossovers detected")

	if c.json {
		return printJSON(os.Stdout, events)
	}
	printMarkdown(os.Stdout, renderer.CrossoversMarkdown(fmt.Sprintf("Crossovers %s", c.instrument), events, cfg.Currency))
	return subcommands.ExitSuccess
}

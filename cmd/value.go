package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/TomaszMurek1/stock-scout-sub002/date"
	"github.com/TomaszMurek1/stock-scout-sub002/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	inputs
	tracked string
	period  string
	json    bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the value curve of the tracked instruments" }
func (*valueCmd) Usage() string {
	return `value [-tx <glob>] [-prices <glob>] [-path <jsonpath>] [-tracked <ids>] [-period <period>] [-json]

  Displays the aggregate value of the tracked instruments on every day with a
  trade or a price. Instruments without a price yet are worth zero.
  Records are read from the files matching the globs, or from the database.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tx, "tx", "", "comma-separated globs of transaction files (JSON or JSONL)")
	f.StringVar(&c.prices, "prices", "", "comma-separated globs of price files (JSON or JSONL)")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.data")
	f.StringVar(&c.tracked, "tracked", "", "comma-separated tracked instruments (default from the configuration)")
	f.StringVar(&c.period, "period", "day", "keep the last value of each period: day, week, month, quarter or year")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a report")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	tracked := cfg.Tracked
	if c.tracked != "" {
		tracked = list(c.tracked)
	}
	if len(tracked) == 0 {
		fmt.Fprintln(os.Stderr, "no tracked instrument: use -tracked or set tracked in the configuration")
		return subcommands.ExitUsageError
	}

	txs, err := c.transactions(ctx, cfg, tracked...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := c.pricePoints(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	v, err := portfolio.ValuationCurve(tracked, txs, prices, cfg.LedgerOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the value curve: %v\n", err)
		return subcommands.ExitFailure
	}
	logWarnings(log, v.Warnings)
	log.Debug().Int("points", len(v.Points)).Strs("tracked", tracked).Msg("value curve computed")

	v.Points = portfolio.SampleEnd(v.Points, period)
	if c.json {
		return printJSON(os.Stdout, v.Points)
	}
	printMarkdown(os.Stdout, renderer.ValuationMarkdown("Portfolio value", v, cfg.Currency))
	return subcommands.ExitSuccess
}

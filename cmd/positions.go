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

type positionsCmd struct {
	inputs
	on   string
	json bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the position of every traded instrument" }
func (*positionsCmd) Usage() string {
	return `positions [-tx <glob>] [-path <jsonpath>] [-d <date>] [-json]

  Displays the quantity held of every traded instrument at the end of a day.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tx, "tx", "", "comma-separated globs of transaction files (JSON or JSONL)")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.data")
	f.StringVar(&c.on, "d", date.Today().String(), "date of the positions")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a report")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, err := c.transactions(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := portfolio.NewPositionLedger(txs, cfg.LedgerOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building the ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("transactions", len(txs)).Int("instruments", len(ledger.Instruments())).Msg("ledger built")

	snapshot := ledger.Snapshot(on)
	if c.json {
		return printJSON(os.Stdout, snapshot)
	}
	printMarkdown(os.Stdout, renderer.PositionsMarkdown(on, snapshot))
	return subcommands.ExitSuccess
}

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

type densifyCmd struct {
	inputs
	instrument string
	json       bool
}

func (*densifyCmd) Name() string     { return "densify" }
func (*densifyCmd) Synopsis() string { return "fill the calendar gaps of indicator rows" }
func (*densifyCmd) Usage() string {
	return `densify -rows <glob> [-path <jsonpath>] | -i <instrument> [-json]

  Displays indicator rows with one row per calendar day, each missing day
  carrying the previous row forward.
`
}

func (c *densifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rows, "rows", "", "comma-separated globs of indicator row files (JSON or JSONL)")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.rows")
	f.StringVar(&c.instrument, "i", "", "instrument whose rows are read from the database")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a report")
}

func (c *densifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	rows, err := c.indicatorRows(ctx, cfg, c.instrument)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rows: %v\n", err)
		return subcommands.ExitFailure
	}
	dense, err := portfolio.DensifyRows(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error densifying rows: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Int("rows", len(rows)).Int("dense", len(dense)).Msg("rows densified")

	if c.json {
		return printJSON(os.Stdout, dense)
	}
	printMarkdown(os.Stdout, renderer.RowsMarkdown(fmt.Sprintf("Daily rows %s", c.instrument), dense))
	return subcommands.ExitSuccess
}

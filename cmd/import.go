package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/google/subcommands"
)

type importCmd struct {
	inputs
	instrument string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import records into the database" }
func (*importCmd) Usage() string {
	return `import [-tx <glob>] [-prices <glob>] [-rows <glob> -i <instrument>] [-path <jsonpath>]

  Stores transactions, prices and indicator rows into the database.
  Transactions are appended; prices and rows replace those of the same day.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tx, "tx", "", "comma-separated globs of transaction files (JSON or JSONL)")
	f.StringVar(&c.prices, "prices", "", "comma-separated globs of price files (JSON or JSONL)")
	f.StringVar(&c.rows, "rows", "", "comma-separated globs of indicator row files (JSON or JSONL)")
	f.StringVar(&c.instrument, "i", "", "instrument of the indicator rows")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.data")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.tx == "" && c.prices == "" && c.rows == "" {
		fmt.Fprintln(os.Stderr, "at least one of -tx, -prices or -rows must be provided")
		return subcommands.ExitUsageError
	}
	if c.rows != "" && c.instrument == "" {
		fmt.Fprintln(os.Stderr, "-rows requires -i")
		return subcommands.ExitUsageError
	}
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	s, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if c.tx != "" {
		txs, err := readRecords(c.tx, c.path, portfolio.DecodeTransactions)
		if err == nil {
			err = s.AddTransactions(ctx, txs)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Int("count", len(txs)).Str("db", cfg.DB).Msg("transactions imported")
	}
	if c.prices != "" {
		prices, err := readRecords(c.prices, c.path, portfolio.DecodePrices)
		if err == nil {
			err = s.PutPrices(ctx, prices)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing prices: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Int("count", len(prices)).Str("db", cfg.DB).Msg("prices imported")
	}
	if c.rows != "" {
		rows, err := readRecords(c.rows, c.path, portfolio.DecodeIndicatorRows)
		if err == nil {
			err = s.PutIndicatorRows(ctx, c.instrument, rows)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing rows: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info().Int("count", len(rows)).Str("instrument", c.instrument).Str("db", cfg.DB).Msg("indicator rows imported")
	}
	return subcommands.ExitSuccess
}

// Package cmd implements the stockscout command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/TomaszMurek1/stock-scout-sub002/store"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&valueCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&densifyCmd{}, "reports")
	c.Register(&crossoversCmd{}, "reports")

	c.Register(&importCmd{}, "database")
	c.Register(&watchCmd{}, "database")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "stockscout.yaml", "Path to the YAML configuration file")
var dbPath = flag.String("db", "", "Path to the SQLite database (overrides the configuration)")
var logLevel = flag.String("log-level", "", "Log level: debug, info, warn or error (overrides the configuration)")

// NewLogger returns a logger writing to stderr, so that it never mixes with reports.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// setup loads the configuration, applies the global flags and builds the logger.
func setup() (*Config, zerolog.Logger, error) {
	_ = godotenv.Load() // best-effort

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, NewLogger(cfg.LogLevel), nil
}

// openStore opens the configured database.
func openStore(cfg *Config) (*store.Store, error) {
	if cfg.DB == "" {
		return nil, fmt.Errorf("no database configured: set db in %s or use -db", *configFile)
	}
	return store.Open(cfg.DB)
}

// printMarkdown renders a markdown document for the terminal. The raw
// markdown is printed when it cannot be rendered.
func printMarkdown(w io.Writer, doc string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(doc); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, doc)
}

// printJSON writes v as indented JSON, or fails the command.
func printJSON(w io.Writer, v any) subcommands.ExitStatus {
	if err := portfolio.EncodeJSON(w, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// logWarnings reports ignored price records.
func logWarnings(log zerolog.Logger, warnings []portfolio.InstrumentMismatchWarning) {
	for _, w := range warnings {
		log.Warn().Int("row", w.Row).Str("instrument", w.Instrument).Msg("price record ignored: instrument not tracked")
	}
}

// list splits a comma-separated flag value.
func list(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}


// Command stockscout reports on a portfolio of stock positions.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/TomaszMurek1/stock-scout-sub002/cmd"
	"github.com/google/subcommands"
)

func main() {
	// exits when invoked by the shell to complete a command line
	cmd.Completion().Complete("stockscout")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

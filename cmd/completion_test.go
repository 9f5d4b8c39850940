package cmd

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
)

func TestCompletionCoversCommands(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("stockscout", flag.ContinueOnError), "stockscout")
	Register(commander)

	completion := Completion()
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub, ok := completion.Sub[c.Name()]
		if !ok {
			t.Errorf("no completion for command %q", c.Name())
			return
		}
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		f.VisitAll(func(fl *flag.Flag) {
			if _, ok := sub.Flags[fl.Name]; !ok {
				t.Errorf("no completion for flag -%s of %q", fl.Name, c.Name())
			}
		})
	})
}

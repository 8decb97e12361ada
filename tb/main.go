// Command tb keeps a trading book: lots opened, trimmed, closed and split,
// their stops and the realized P/L, in an append-only ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradingbook/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cmd.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging()

	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if ok, code := cmd.RunExtension(name, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradingbook"
	"github.com/etnz/tradingbook/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct{}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list open lots" }
func (*lotsCmd) Usage() string {
	return `lots [ticker...]

  Lists the open lots with their entry, stop and risk, for all tickers or
  only the given ones.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := loadEvents()
	if err != nil {
		return failure(err)
	}
	p, err := tradingbook.Replay(events)
	if err != nil {
		return failure(err)
	}
	var tickers []string
	for _, t := range f.Args() {
		tickers = append(tickers, tradingbook.NormalizeTicker(t))
	}
	md, err := renderer.RenderLots(renderer.NewLotsView(p, formatter(), tickers...))
	if err != nil {
		return failure(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradingbook"
	"github.com/etnz/tradingbook/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	html string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show open positions and realized P/L" }
func (*reportCmd) Usage() string {
	return `report [-html <file>]

  For every ticker with open lots: the shares held, the quantity weighted
  entry price and stop, the risk and the realized P/L.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.html, "html", "", "Write the report as an HTML page to this file")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := loadEvents()
	if err != nil {
		return failure(err)
	}
	p, err := tradingbook.Replay(events)
	if err != nil {
		return failure(err)
	}
	md, err := renderer.ReportMarkdown(p, formatter())
	if err != nil {
		return failure(err)
	}

	if c.html == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	page, err := renderer.HTML("Trading Book", md)
	if err != nil {
		return failure(err)
	}
	if err := os.WriteFile(c.html, []byte(page), 0o644); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", c.html)
	return subcommands.ExitSuccess
}

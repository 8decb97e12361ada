package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradingbook/date"
	"github.com/etnz/tradingbook/renderer"
	"github.com/google/subcommands"
)

type logCmd struct {
	tail     int
	from, to string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list events with the position after each one" }
func (*logCmd) Usage() string {
	return `log [-s <date>] [-e <date>] [-tail <n>]
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "tail", 0, "Show only the last n events")
	f.StringVar(&c.from, "s", "", "Show events from this date (YYYY-MM-DD)")
	f.StringVar(&c.to, "e", "", "Show events until this date (YYYY-MM-DD)")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var opts renderer.LogOptions
	opts.Tail = c.tail
	var err error
	if c.from != "" {
		if opts.Range.From, err = date.Parse(c.from); err != nil {
			return usage(f, "%v", err)
		}
	}
	if c.to != "" {
		if opts.Range.To, err = date.Parse(c.to); err != nil {
			return usage(f, "%v", err)
		}
	}

	events, err := loadEvents()
	if err != nil {
		return failure(err)
	}
	md, err := renderer.LogMarkdown(events, formatter(), opts)
	if err != nil {
		return failure(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

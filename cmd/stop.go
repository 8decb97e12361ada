package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type stopCmd struct {
	id   uint64
	date string
}

func (*stopCmd) Name() string     { return "stop" }
func (*stopCmd) Synopsis() string { return "move the stop of a lot" }
func (*stopCmd) Usage() string {
	return `stop -id <lot> [-d <date>] <ticker> <stop> [note...]
`
}

func (c *stopCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.id, "id", 0, "Lot id (required)")
	f.StringVar(&c.date, "d", "", "Date of the move (YYYY-MM-DD), today by default")
}

func (c *stopCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		return usage(f, "-id is required")
	}
	if f.NArg() < 2 {
		return usage(f, "stop needs a ticker and the new stop")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	stop, err := parseDecimal("stop", f.Arg(1))
	if err != nil {
		return usage(f, "%v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return failure(err)
	}
	defer s.Close()

	_, err = tradingbook.NewPlanner(s).MoveStop(tradingbook.StopRequest{
		Date:   on,
		Ticker: f.Arg(0),
		LotID:  c.id,
		Stop:   stop,
		Note:   note(f.Args()[2:]),
	})
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Moved stop for lot %d\n", c.id)
	return subcommands.ExitSuccess
}

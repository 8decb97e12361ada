package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	date string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "open a new lot" }
func (*addCmd) Usage() string {
	return `add [-d <date>] <ticker> <qty> <price> <stop> [note...]

  Buys qty shares of ticker at price with an initial stop. The new lot id is
  the id of the appended event.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD), today by default")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 4 {
		return usage(f, "add needs a ticker, a quantity, a price and a stop")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	var values [3]decimal.Decimal
	for i, name := range []string{"qty", "price", "stop"} {
		if values[i], err = parseDecimal(name, f.Arg(1+i)); err != nil {
			return usage(f, "%v", err)
		}
	}

	s, err := OpenStore()
	if err != nil {
		return failure(err)
	}
	defer s.Close()

	e, err := tradingbook.NewPlanner(s).Open(tradingbook.OpenRequest{
		Date:   on,
		Ticker: f.Arg(0),
		Qty:    values[0],
		Price:  values[1],
		Stop:   values[2],
		Note:   note(f.Args()[4:]),
	})
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Added lot %d\n", e.ID)
	return subcommands.ExitSuccess
}

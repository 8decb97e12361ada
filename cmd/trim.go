package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type trimCmd struct {
	id    uint64
	price string
	date  string
}

func (*trimCmd) Name() string     { return "trim" }
func (*trimCmd) Synopsis() string { return "sell part of a lot" }
func (*trimCmd) Usage() string {
	return `trim -id <lot> -price <price> [-d <date>] <ticker> <qty> [note...]

  Sells qty shares of the lot. The quantity must be positive and at most the
  quantity left in the lot.
`
}

func (c *trimCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.id, "id", 0, "Lot id (required)")
	f.StringVar(&c.price, "price", "", "Sell price (required)")
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD), today by default")
}

func (c *trimCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 || c.price == "" {
		return usage(f, "-id and -price are required")
	}
	if f.NArg() < 2 {
		return usage(f, "trim needs a ticker and a quantity")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	price, err := parseDecimal("price", c.price)
	if err != nil {
		return usage(f, "%v", err)
	}
	qty, err := parseDecimal("qty", f.Arg(1))
	if err != nil {
		return usage(f, "%v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return failure(err)
	}
	defer s.Close()

	_, err = tradingbook.NewPlanner(s).Trim(tradingbook.TrimRequest{
		Date:   on,
		Ticker: f.Arg(0),
		LotID:  c.id,
		Qty:    qty,
		Price:  price,
		Note:   note(f.Args()[2:]),
	})
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Trimmed lot %d by %s\n", c.id, qty)
	return subcommands.ExitSuccess
}

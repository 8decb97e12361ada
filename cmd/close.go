package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type closeCmd struct {
	id    uint64
	price string
	date  string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "sell all the shares left in a lot" }
func (*closeCmd) Usage() string {
	return `close -id <lot> -price <price> [-d <date>] <ticker> [note...]
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.id, "id", 0, "Lot id (required)")
	f.StringVar(&c.price, "price", "", "Sell price (required)")
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD), today by default")
}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 || c.price == "" {
		return usage(f, "-id and -price are required")
	}
	if f.NArg() < 1 {
		return usage(f, "close needs a ticker")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	price, err := parseDecimal("price", c.price)
	if err != nil {
		return usage(f, "%v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return failure(err)
	}
	defer s.Close()

	_, err = tradingbook.NewPlanner(s).Close(tradingbook.CloseRequest{
		Date:   on,
		Ticker: f.Arg(0),
		LotID:  c.id,
		Price:  price,
		Note:   note(f.Args()[1:]),
	})
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Closed lot %d\n", c.id)
	return subcommands.ExitSuccess
}

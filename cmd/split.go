package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type splitCmd struct {
	id   uint64
	date string
	note string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "split a lot into lots with their own stop" }
func (*splitCmd) Usage() string {
	return `split -id <lot> [-d <date>] [-m <note>] <ticker> <qty:stop>...

  Splits the lot into parts. The first part stays in the lot, every other
  part becomes a new lot at the same entry price. Quantities must add up to
  the lot quantity and stops must all differ.

  Example: tb split -id 3 TSLA 60:190 40:185
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.id, "id", 0, "Lot id (required)")
	f.StringVar(&c.date, "d", "", "Date of the split (YYYY-MM-DD), today by default")
	f.StringVar(&c.note, "m", "", "Note appended to every split event")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		return usage(f, "-id is required")
	}
	if f.NArg() < 2 {
		return usage(f, "split needs a ticker and the parts")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usage(f, "%v", err)
	}
	parts, err := tradingbook.ParseSplitParts(f.Args()[1:]...)
	if err != nil {
		return usage(f, "%v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return failure(err)
	}
	defer s.Close()

	events, err := tradingbook.NewPlanner(s).Split(tradingbook.SplitRequest{
		Date:   on,
		Ticker: f.Arg(0),
		LotID:  c.id,
		Parts:  parts,
		Note:   c.note,
	})
	if err != nil {
		for _, e := range events {
			fmt.Fprintf(os.Stderr, "appended before the failure: %v\n", e)
		}
		return failure(err)
	}

	lots := []string{strconv.FormatUint(c.id, 10)}
	for _, e := range events {
		if e.Kind() == tradingbook.Open {
			lots = append(lots, strconv.FormatUint(e.ID, 10))
		}
	}
	fmt.Fprintf(stdout, "Split lot %d into lots %s\n", c.id, strings.Join(lots, ", "))
	return subcommands.ExitSuccess
}

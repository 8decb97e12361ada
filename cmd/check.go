package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify that the ledger replays" }
func (*checkCmd) Usage() string {
	return `check

  Loads and replays the whole ledger. A ledger that cannot be read or that
  holds a reduction without lot reference fails. Events that did not apply
  are reported as warnings.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := loadEvents()
	if err != nil {
		return failure(err)
	}
	p, err := tradingbook.Replay(events)
	if err != nil {
		return failure(err)
	}

	for _, id := range p.Ignored() {
		fmt.Fprintf(stdout, "warning: event %d was ignored, its lot is not open\n", id)
	}
	for _, id := range p.Clamped() {
		fmt.Fprintf(stdout, "warning: event %d sold more than its lot held, the sale was clamped\n", id)
	}
	status := "ok"
	if n := len(p.Ignored()) + len(p.Clamped()); n > 0 {
		status = fmt.Sprintf("%d warnings", n)
	}
	fmt.Fprintf(stdout, "%d events, %d open lots: %s\n", len(events), len(p.AllLots()), status)
	return subcommands.ExitSuccess
}

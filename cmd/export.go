package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	query  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "print the ledger as CSV or JSON" }
func (*exportCmd) Usage() string {
	return `export [-format csv|json] [-q <jsonpath>]

  csv prints the canonical ledger, whatever the storage backend.
  json prints the events, the open lots and the realized P/L. -q selects a
  part of it, for instance -q '$.positions.TSLA[0].risk'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Output format: csv or json")
	f.StringVar(&c.query, "q", "", "JSONPath expression selecting a part of the json output")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "csv" && c.format != "json" {
		return usage(f, "unknown format %q", c.format)
	}
	if c.query != "" && c.format != "json" {
		return usage(f, "-q needs -format json")
	}

	events, err := loadEvents()
	if err != nil {
		return failure(err)
	}
	if c.format == "csv" {
		if err := tradingbook.EncodeLedger(stdout, events); err != nil {
			return failure(err)
		}
		return subcommands.ExitSuccess
	}

	x, err := tradingbook.NewExport(events)
	if err != nil {
		return failure(err)
	}
	var out []byte
	if c.query == "" {
		out, err = json.MarshalIndent(x, "", "  ")
	} else {
		var v any
		if v, err = x.Select(c.query); err == nil {
			out, err = json.Marshal(v)
		}
	}
	if err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "%s\n", out)
	return subcommands.ExitSuccess
}

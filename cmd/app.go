// Package cmd implements the tb command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradingbook"
	"github.com/etnz/tradingbook/date"
	"github.com/etnz/tradingbook/renderer"
	"github.com/etnz/tradingbook/store"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Commands lists every tb command.
var Commands = []subcommands.Command{
	&addCmd{},
	&trimCmd{},
	&closeCmd{},
	&stopCmd{},
	&splitCmd{},
	&reportCmd{},
	&lotsCmd{},
	&logCmd{},
	&checkCmd{},
	&exportCmd{},
	&topicCmd{},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, group(cmd.Name()))
	}
}

func group(name string) string {
	switch name {
	case "add", "trim", "close", "stop", "split":
		return "trades"
	case "report", "lots", "log", "check", "export":
		return "reports"
	}
	return "help"
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile = flag.String("ledger", "", "Path to the ledger (default "+defaultLedger+")")
	backend    = flag.String("backend", "", "Ledger storage: csv, sqlite or memory (default csv)")
	configFile = flag.String("config", ".tradingbook.yaml", "Path to the optional YAML configuration file")
	currency   = flag.String("currency", "", "Currency used to format amounts (default USD)")
	Verbose    = flag.Bool("v", false, "Print traces on stderr")
)

// stdout receives the command results.
var stdout io.Writer = os.Stdout

// SetupLogging discards log output unless -v was given.
func SetupLogging() {
	log.SetFlags(0)
	log.SetPrefix("tb: ")
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
}

// OpenStore opens the ledger described by the configuration.
func OpenStore() (store.Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log.Printf("opening %s ledger %s", cfg.Backend, cfg.Ledger)
	return store.Open(cfg.Store())
}

// formatter returns the amount formatter of the configuration.
func formatter() renderer.Formatter {
	cfg, err := LoadConfig()
	if err != nil {
		return renderer.Formatter{Currency: defaultCurrency}
	}
	return renderer.Formatter{Currency: cfg.Currency}
}

// loadEvents reads every event of the configured ledger.
func loadEvents() ([]tradingbook.Event, error) {
	s, err := OpenStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.LoadAll()
}

// printMarkdown renders md for the terminal, or prints it raw if rendering
// fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		out, err := r.Render(md)
		if err == nil {
			fmt.Fprint(stdout, out)
			return
		}
		log.Printf("could not render markdown: %v", err)
	}
	fmt.Fprint(stdout, md)
}

// failure reports err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, tradingbook.ErrNotFound), errors.Is(err, tradingbook.ErrValidation):
		fmt.Fprintf(os.Stderr, "Error: %v\nThe ledger was not modified.\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

// usage reports a command line error.
func usage(f *flag.FlagSet, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	f.Usage()
	return subcommands.ExitUsageError
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q", name, value)
	}
	return d, nil
}

// parseDay parses the -d flag, an empty value is the zero date that the
// planner reads as today.
func parseDay(value string) (date.Date, error) {
	if value == "" {
		return date.Date{}, nil
	}
	return date.Parse(value)
}

// note joins the trailing arguments of a command.
func note(args []string) string { return strings.Join(args, " ") }

package cmd

import (
	"flag"

	"github.com/etnz/tradingbook/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete runs the shell completion of tb when the shell asks for it, and
// exits. Otherwise it returns immediately. COMP_INSTALL=1 installs it.
func Complete(name string) {
	completion().Complete(name)
}

func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(f)}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch fl.Name {
		case "ledger", "config", "html":
			flags[fl.Name] = predict.Files("*")
		case "backend":
			flags[fl.Name] = predict.Set{"csv", "sqlite", "memory"}
		case "format":
			flags[fl.Name] = predict.Set{"csv", "json"}
		case "v", "l":
			flags[fl.Name] = predict.Nothing
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

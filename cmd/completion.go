package cmd

import (
	"flag"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors suggests values for flags that take one of a known set,
// per command name. The empty name holds the global flags.
// Short flag names are reused across commands, so they are never shared.
var flagPredictors = map[string]map[string]complete.Predictor{
	"":            {"data": predict.Dirs("*")},
	"add":         {"k": predictKinds()},
	"summary":     {"p": predictPeriods()},
	"report":      {"p": predictPeriods()},
	"holding-add": {"c": predict.Set(finance.HoldingCategories)},
	"sell":        {"at": predict.Set{"current", "cost"}},
	"export": {
		"format": predict.Set{string(finance.JSON), string(finance.CSV)},
		"o":      predict.Files("*"),
	},
}

func predictPeriods() predict.Set {
	var s predict.Set
	for _, p := range date.Periods {
		s = append(s, p.String())
	}
	return s
}

func predictKinds() predict.Set {
	var s predict.Set
	for _, k := range finance.Kinds {
		s = append(s, string(k))
	}
	return s
}

// flagsOf returns the predictors of every flag of fs, a flag set of the command named name.
func flagsOf(name string, fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[name][f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// Completion returns the shell completion tree of the commands and their flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf("", flag.CommandLine),
	}
	for _, e := range commands {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flagsOf(e.cmd.Name(), fs)}
		if e.cmd.Name() == "import" {
			sub.Args = predict.Files("*")
		}
		root.Sub[e.cmd.Name()] = sub
	}
	return root
}

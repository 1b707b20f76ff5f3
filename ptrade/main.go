// Command ptrade is the paper-trading simulator: it scans for trending
// penny stocks, sizes orders, fills them with simulated cash and tracks
// the account in a replayable journal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/trendlab/papertrader/cmd"
)

func main() {
	// Shell completion first: when invoked by the shell this prints
	// candidates and exits before any flag parsing.
	completer().Complete("ptrade")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completer describes the command tree for shell completion.
func completer() *complete.Command {
	tradeFlags := map[string]complete.Predictor{
		"t": predict.Something,
		"n": predict.Nothing,
		"p": predict.Nothing,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"journal": predict.Files("*.jsonl"),
		},
		Sub: map[string]*complete.Command{
			"scan": {Flags: map[string]complete.Predictor{
				"source":         predict.Set{"fixture", "mentions", "screener"},
				"mentions-url":   predict.Something,
				"screener-url":   predict.Something,
				"max-price":      predict.Nothing,
				"min-dollar-vol": predict.Nothing,
				"equity":         predict.Nothing,
				"risk":           predict.Nothing,
				"max-positions":  predict.Nothing,
				"min-sentiment":  predict.Nothing,
				"min-mentions":   predict.Nothing,
				"days":           predict.Nothing,
				"predict":        predict.Nothing,
				"execute":        predict.Nothing,
			}},
			"buy":  {Flags: tradeFlags},
			"sell": {Flags: tradeFlags},
			"mark": {Flags: map[string]complete.Predictor{
				"t": predict.Something,
				"p": predict.Nothing,
			}},
			"portfolio": {},
			"history": {Flags: map[string]complete.Predictor{
				"t":     predict.Something,
				"head":  predict.Nothing,
				"tail":  predict.Nothing,
				"curve": predict.Nothing,
			}},
			"predict": {
				Flags: map[string]complete.Predictor{
					"days":   predict.Nothing,
					"source": predict.Set{"fixture", "live"},
				},
				Args: predict.Something,
			},
			"reset": {Flags: map[string]complete.Predictor{
				"cash": predict.Nothing,
			}},
			"session": {},
			"serve": {Flags: map[string]complete.Predictor{
				"addr": predict.Nothing,
			}},
		},
	}
}

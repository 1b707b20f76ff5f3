package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/renderer"
)

type historyCmd struct {
	symbol string
	head   int
	tail   int
	curve  bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "prints executed trades" }
func (*historyCmd) Usage() string {
	return `ptrade history [-t <ticker>] [-head <n> | -tail <n>] [-curve]:
  Prints the executed trades of the journaled account in order, oldest
  first. With -curve it also prints the equity curve sampled after each
  trade.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "t", "", "only trades for this ticker")
	f.IntVar(&c.head, "head", 0, "only the first n trades")
	f.IntVar(&c.tail, "tail", 0, "only the last n trades")
	f.BoolVar(&c.curve, "curve", false, "also print the equity curve")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail are mutually exclusive")
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}

	trades := ledger.Trades()
	if c.symbol != "" {
		symbol := papertrader.NormalizeSymbol(c.symbol)
		kept := trades[:0:0]
		for _, t := range trades {
			if t.Symbol == symbol {
				kept = append(kept, t)
			}
		}
		trades = kept
	}
	if c.head > 0 && c.head < len(trades) {
		trades = trades[:c.head]
	}
	if c.tail > 0 && c.tail < len(trades) {
		trades = trades[len(trades)-c.tail:]
	}

	printMarkdown(renderer.TradesMarkdown(trades))
	if c.curve {
		printMarkdown(renderer.EquityCurveMarkdown(ledger.EquityCurve()))
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

type buyCmd struct {
	symbol string
	shares int64
	price  float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buys shares with simulated cash" }
func (*buyCmd) Usage() string {
	return `ptrade buy -t <ticker> -n <shares> -p <price>:
  Buys shares at the given price with simulated cash and appends the trade
  to the journal.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "t", "", "ticker to buy")
	f.Int64Var(&c.shares, "n", 0, "number of shares")
	f.Float64Var(&c.price, "p", 0, "price per share")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.symbol) == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}
	t, err := ledger.Buy(c.symbol, c.shares, papertrader.M(c.price))
	if err != nil {
		return fail(err)
	}
	if err := appendRecord(papertrader.NewTradeRecord(t)); err != nil {
		return fail(err)
	}

	fmt.Printf("Bought %d %s at %s. Cash %s.\n", t.Shares, t.Symbol, t.Price, ledger.Cash())
	return subcommands.ExitSuccess
}

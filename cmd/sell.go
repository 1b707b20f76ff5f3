package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

type sellCmd struct {
	symbol string
	shares int64
	price  float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sells shares from an open position" }
func (*sellCmd) Usage() string {
	return `ptrade sell -t <ticker> -n <shares> -p <price>:
  Sells shares from an open position at the given price, realizes the
  profit or loss, and appends the trade to the journal.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "t", "", "ticker to sell")
	f.Int64Var(&c.shares, "n", 0, "number of shares")
	f.Float64Var(&c.price, "p", 0, "price per share")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.symbol) == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}
	t, err := ledger.Sell(c.symbol, c.shares, papertrader.M(c.price))
	if err != nil {
		return fail(err)
	}
	if err := appendRecord(papertrader.NewTradeRecord(t)); err != nil {
		return fail(err)
	}

	fmt.Printf("Sold %d %s at %s. Realized %s. Cash %s.\n",
		t.Shares, t.Symbol, t.Price, t.Realized.SignedString(), ledger.Cash())
	return subcommands.ExitSuccess
}

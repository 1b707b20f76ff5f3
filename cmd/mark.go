package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

type markCmd struct {
	symbol string
	price  float64
}

func (*markCmd) Name() string     { return "mark" }
func (*markCmd) Synopsis() string { return "marks an open position to a new price" }
func (*markCmd) Usage() string {
	return `ptrade mark -t <ticker> -p <price>:
  Revalues an open position at the given market price so unrealized
  profit and equity reflect it. No shares change hands.
`
}

func (c *markCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "t", "", "ticker to mark")
	f.Float64Var(&c.price, "p", 0, "market price per share")
}

func (c *markCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.symbol) == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}
	price := papertrader.M(c.price)
	if err := ledger.MarkPrice(c.symbol, price); err != nil {
		return fail(err)
	}
	symbol := papertrader.NormalizeSymbol(c.symbol)
	if err := appendRecord(papertrader.NewMarkRecord(time.Now().UTC(), symbol, price)); err != nil {
		return fail(err)
	}

	snap := ledger.Snapshot()
	fmt.Printf("Marked %s at %s. Equity %s.\n", symbol, price, snap.Equity)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
)

type resetCmd struct {
	cash float64
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "resets the account to fresh starting cash" }
func (*resetCmd) Usage() string {
	return `ptrade reset [-cash <amount>]:
  Closes every position, forgets all trades and restarts the account
  with the given cash. The journal keeps the full history; the reset is
  appended as one more record.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.cash, "cash", 25_000, "starting cash after the reset")
}

func (c *resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}
	cash := papertrader.M(c.cash)
	if err := ledger.Reset(cash); err != nil {
		return fail(err)
	}
	if err := appendRecord(papertrader.NewResetRecord(time.Now().UTC(), cash)); err != nil {
		return fail(err)
	}

	fmt.Printf("Account reset. Cash %s.\n", ledger.Cash())
	return subcommands.ExitSuccess
}

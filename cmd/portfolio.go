package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader/renderer"
)

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "prints the account snapshot" }
func (*portfolioCmd) Usage() string {
	return `ptrade portfolio:
  Prints cash, open positions and the profit-and-loss summary of the
  journaled account.
`
}

func (*portfolioCmd) SetFlags(f *flag.FlagSet) {}

func (*portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.SnapshotMarkdown(ledger.Snapshot()))
	return subcommands.ExitSuccess
}

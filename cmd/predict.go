package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/feed"
	"github.com/trendlab/papertrader/renderer"
)

type predictCmd struct {
	days   int
	source string
}

func (*predictCmd) Name() string     { return "predict" }
func (*predictCmd) Synopsis() string { return "predicts next-day prices for tickers" }
func (*predictCmd) Usage() string {
	return `ptrade predict [-days <n>] [-source fixture|live] <ticker>...:
  Predicts the next-day price for each ticker from its recent closing
  prices, with a trend call and a trading signal.
`
}

func (c *predictCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "days of history to predict from")
	f.StringVar(&c.source, "source", "fixture", "price source: fixture or live")
}

func (c *predictCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var provider feed.Provider = feed.FixtureProvider{}
	if c.source == "live" {
		p, err := feed.NewYahooProvider(15 * time.Minute)
		if err != nil {
			return fail(err)
		}
		provider = p
	}

	preds := make([]papertrader.Prediction, 0, f.NArg())
	for _, symbol := range f.Args() {
		p, err := predictSymbol(ctx, provider, symbol, c.days)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", symbol, err)
			continue
		}
		preds = append(preds, p)
	}
	if len(preds) == 0 {
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PredictionsMarkdown(preds))
	return subcommands.ExitSuccess
}

// predictSymbol pulls the recent closes for one symbol and predicts from
// them. When no live quote is available the last close stands in for the
// current price.
func predictSymbol(ctx context.Context, provider feed.Provider, symbol string, days int) (papertrader.Prediction, error) {
	symbol = papertrader.NormalizeSymbol(symbol)
	bars, err := provider.History(ctx, symbol, days)
	if err != nil {
		return papertrader.Prediction{}, fmt.Errorf("history for %s: %w", symbol, err)
	}
	closes := feed.Closes(bars)

	current, err := provider.Quote(ctx, symbol)
	if err != nil || current <= 0 {
		if len(closes) == 0 {
			return papertrader.Prediction{}, fmt.Errorf("no price data for %s", symbol)
		}
		current = closes[len(closes)-1]
	}

	p := papertrader.Predict(closes, current)
	p.Symbol = symbol
	return p, nil
}

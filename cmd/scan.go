package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/feed"
	"github.com/trendlab/papertrader/renderer"
)

type scanCmd struct {
	source      string
	mentionsURL string
	screenerURL string

	maxPrice     float64
	minDollarVol float64

	equity       float64
	risk         float64
	maxPositions int
	minSentiment float64
	minMentions  int

	days    int
	predict bool
	execute bool
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "runs the scan, screen, rank and size pipeline" }
func (*scanCmd) Usage() string {
	return `ptrade scan [-source <name>] [-predict] [-execute]:
  Pulls trending candidates from the data source, screens them for price
  and liquidity, ranks them and sizes orders. With -execute the orders
  are filled against the journaled account.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "fixture", "data source: fixture, mentions or screener")
	f.StringVar(&c.mentionsURL, "mentions-url", "", "endpoint the mentions source polls")
	f.StringVar(&c.screenerURL, "screener-url", "", "page the screener source scrapes")

	screen := feed.DefaultScreenConfig()
	f.Float64Var(&c.maxPrice, "max-price", screen.MaxPrice, "price ceiling for the screen")
	f.Float64Var(&c.minDollarVol, "min-dollar-vol", screen.MinDollarVolume, "dollar-volume floor for the screen")

	sizer := papertrader.DefaultSizerConfig()
	f.Float64Var(&c.equity, "equity", 0, "equity to size against (0 uses the account equity)")
	f.Float64Var(&c.risk, "risk", sizer.RiskPerTrade, "fraction of equity per position")
	f.IntVar(&c.maxPositions, "max-positions", sizer.MaxPositions, "most orders one scan may emit")
	f.Float64Var(&c.minSentiment, "min-sentiment", sizer.MinSentiment, "sentiment floor for sizing")
	f.IntVar(&c.minMentions, "min-mentions", sizer.MinMentions, "mention floor for sizing")

	f.IntVar(&c.days, "days", 30, "history window for predictions")
	f.BoolVar(&c.predict, "predict", false, "also predict prices for the ranked candidates")
	f.BoolVar(&c.execute, "execute", false, "fill the sized orders against the account")
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src, provider, status := c.newSource(f)
	if status != subcommands.ExitSuccess {
		return status
	}

	ledger, err := openLedger()
	if err != nil {
		return fail(err)
	}

	raw, err := src.Candidates(ctx)
	if err != nil {
		return fail(err)
	}
	screened := feed.Screen(raw, feed.ScreenConfig{MaxPrice: c.maxPrice, MinDollarVolume: c.minDollarVol})
	candidates, err := papertrader.Rank(screened)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.CandidatesMarkdown(candidates))
	if len(candidates) == 0 {
		return subcommands.ExitSuccess
	}

	if c.predict {
		preds := make([]papertrader.Prediction, 0, len(candidates))
		for _, cand := range candidates {
			p, err := predictSymbol(ctx, provider, cand.Symbol, c.days)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping prediction for %s: %v\n", cand.Symbol, err)
				continue
			}
			preds = append(preds, p)
		}
		printMarkdown(renderer.PredictionsMarkdown(preds))
	}

	cfg := papertrader.SizerConfig{
		Equity:       c.equity,
		RiskPerTrade: c.risk,
		MaxPositions: c.maxPositions,
		MinSentiment: c.minSentiment,
		MinMentions:  c.minMentions,
	}
	if cfg.Equity == 0 {
		cfg.Equity = ledger.Snapshot().Equity.Float64()
	}
	orders, err := papertrader.Size(cfg, candidates)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.OrdersMarkdown(orders, false))

	if !c.execute {
		return subcommands.ExitSuccess
	}
	executed := make([]papertrader.Order, 0, len(orders))
	for _, o := range orders {
		t, err := ledger.Execute(o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", o.Symbol, err)
			continue
		}
		if err := appendRecord(papertrader.NewTradeRecord(t)); err != nil {
			return fail(err)
		}
		executed = append(executed, o)
	}
	printMarkdown(renderer.OrdersMarkdown(executed, true))
	printMarkdown(renderer.SnapshotMarkdown(ledger.Snapshot()))
	return subcommands.ExitSuccess
}

// newSource builds the candidate source named by the flags, and the price
// provider that backs predictions against the same market.
func (c *scanCmd) newSource(f *flag.FlagSet) (feed.Source, feed.Provider, subcommands.ExitStatus) {
	var provider feed.Provider = feed.FixtureProvider{}
	if c.source != "fixture" {
		p, err := feed.NewYahooProvider(15 * time.Minute)
		if err != nil {
			return nil, nil, fail(err)
		}
		provider = p
	}

	switch c.source {
	case "fixture":
		return feed.Fixture{}, provider, subcommands.ExitSuccess
	case "mentions":
		if strings.TrimSpace(c.mentionsURL) == "" {
			fmt.Fprintln(os.Stderr, "Error: the mentions source needs -mentions-url")
			f.Usage()
			return nil, nil, subcommands.ExitUsageError
		}
		return feed.NewMentions(c.mentionsURL, provider), provider, subcommands.ExitSuccess
	case "screener":
		if strings.TrimSpace(c.screenerURL) == "" {
			fmt.Fprintln(os.Stderr, "Error: the screener source needs -screener-url")
			f.Usage()
			return nil, nil, subcommands.ExitUsageError
		}
		return feed.NewScreener(c.screenerURL), provider, subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: unknown data source %q\n", c.source)
	f.Usage()
	return nil, nil, subcommands.ExitUsageError
}

// Package feed supplies candidate sets and price data to the simulator.
//
// A Source produces the day's raw candidates: the deterministic Fixture set,
// a JSON mention feed, or a scraped HTML screener. A Provider supplies price
// history and live quotes, either from Yahoo Finance or generated offline.
// Screen applies the penny-stock liquidity filter between the two.
package feed

import (
	"context"

	"github.com/trendlab/papertrader"
)

// Source yields one upstream's candidate set.
type Source interface {
	// Name identifies the source in logs and configuration.
	Name() string
	// Candidates fetches the current candidate set. Implementations
	// return partial data rather than failing the whole set when a single
	// symbol cannot be resolved.
	Candidates(ctx context.Context) ([]papertrader.Candidate, error)
}

// demoMentions is the canned mention sample behind the fixture source.
var demoMentions = []struct {
	symbol    string
	mentions  int
	sentiment float64
}{
	{"ATER", 245, 0.68},
	{"SRNE", 198, 0.52},
	{"LGVN", 176, 0.71},
	{"PSTG", 154, 0.45},
	{"MULN", 142, 0.38},
	{"NKTX", 128, 0.62},
	{"RLMD", 115, 0.55},
	{"OXBR", 98, 0.71},
	{"UVXY", 87, -0.15},
	{"PROG", 76, 0.48},
}

const demoDollarVolume = 500_000

// Fixture serves the canned candidate set with synthetic prices. It does no
// I/O and never fails, which makes it the default source for demos and tests.
type Fixture struct{}

func (Fixture) Name() string { return "fixture" }

func (Fixture) Candidates(ctx context.Context) ([]papertrader.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates := make([]papertrader.Candidate, 0, len(demoMentions))
	for _, m := range demoMentions {
		candidates = append(candidates, papertrader.Candidate{
			Symbol:       m.symbol,
			Mentions:     m.mentions,
			Sentiment:    m.sentiment,
			LastPrice:    demoPrice(m.symbol),
			DollarVolume: demoDollarVolume,
		})
	}
	return candidates, nil
}

// demoPrice maps a symbol to a stable pseudo-random price in the penny-stock
// band ($2.50 to $5.40).
func demoPrice(symbol string) float64 {
	return 2.5 + float64(byteSum(symbol)%30)/10
}

func byteSum(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum
}

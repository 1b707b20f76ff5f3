package feed

import "github.com/trendlab/papertrader"

// ScreenConfig is the liquidity filter applied before ranking. It is the
// penny-stock screen: a price ceiling and a dollar-volume floor.
type ScreenConfig struct {
	MaxPrice        float64 `json:"price_max"`
	MinDollarVolume float64 `json:"min_dollar_vol"`
}

// DefaultScreenConfig returns the stock screen: price at most $5.00 and at
// least $200,000 of average daily dollar volume.
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{MaxPrice: 5.0, MinDollarVolume: 200_000}
}

// Screen keeps the candidates with a positive last price at or under the
// price ceiling and enough dollar volume. The input is not modified.
func Screen(candidates []papertrader.Candidate, cfg ScreenConfig) []papertrader.Candidate {
	kept := make([]papertrader.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.LastPrice <= 0 || c.LastPrice > cfg.MaxPrice {
			continue
		}
		if c.DollarVolume < cfg.MinDollarVolume {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

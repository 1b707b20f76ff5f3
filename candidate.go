package papertrader

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Ranking weights for the composite score. Fixed by design, they must sum to
// 1.0 and are not runtime-configurable.
const (
	weightMentions     = 0.5
	weightSentiment    = 0.3
	weightDollarVolume = 0.2
)

// Candidate is one instrument under consideration: its raw screening metrics
// plus the rank score computed by Rank. Candidates are built fresh per
// request and discarded after sizing; RankScore is never persisted.
type Candidate struct {
	Symbol       string  `json:"ticker"`
	Mentions     int     `json:"mentions"`
	Sentiment    float64 `json:"avg_sentiment"`
	LastPrice    float64 `json:"last"`
	DollarVolume float64 `json:"avg_dollar_vol"`
	RankScore    float64 `json:"rank_score"`
}

// NormalizeSymbol maps raw ticker text to its canonical form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate rejects candidates that cannot be ranked: an empty symbol or any
// non-finite numeric field. Values are never silently coerced.
func (c Candidate) Validate() error {
	if NormalizeSymbol(c.Symbol) == "" {
		return fmt.Errorf("%w: empty symbol", ErrMalformedCandidate)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"sentiment", c.Sentiment},
		{"last price", c.LastPrice},
		{"dollar volume", c.DollarVolume},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s: non-finite %s %v", ErrMalformedCandidate, c.Symbol, f.name, f.value)
		}
	}
	if c.Mentions < 0 {
		return fmt.Errorf("%w: %s: negative mentions %d", ErrMalformedCandidate, c.Symbol, c.Mentions)
	}
	return nil
}

// Rank validates the candidate set, annotates every candidate with its
// composite rank score and returns a new slice in deterministic descending
// order: rank score, then mentions, then symbol ascending. The input slice is
// not modified.
//
// Each raw metric is min-max normalized across the set. A flat metric
// (max == min) normalizes to 0 for every candidate, so a fully flat set
// yields rank score 0 everywhere rather than NaN. An empty input yields an
// empty output and no error.
func Rank(candidates []Candidate) ([]Candidate, error) {
	if len(candidates) == 0 {
		return []Candidate{}, nil
	}

	ranked := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		c.Symbol = NormalizeSymbol(c.Symbol)
		ranked[i] = c
	}

	mentions := normalizer(ranked, func(c Candidate) float64 { return float64(c.Mentions) })
	sentiment := normalizer(ranked, func(c Candidate) float64 { return c.Sentiment })
	volume := normalizer(ranked, func(c Candidate) float64 { return c.DollarVolume })

	for i := range ranked {
		c := &ranked[i]
		c.RankScore = weightMentions*mentions(float64(c.Mentions)) +
			weightSentiment*sentiment(c.Sentiment) +
			weightDollarVolume*volume(c.DollarVolume)
	}

	slices.SortFunc(ranked, func(a, b Candidate) int {
		switch {
		case a.RankScore > b.RankScore:
			return -1
		case a.RankScore < b.RankScore:
			return 1
		}
		switch {
		case a.Mentions > b.Mentions:
			return -1
		case a.Mentions < b.Mentions:
			return 1
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return ranked, nil
}

// normalizer returns the min-max normalization function for one metric over
// the candidate set. A flat range maps every value to 0.
func normalizer(candidates []Candidate, metric func(Candidate) float64) func(float64) float64 {
	lo, hi := metric(candidates[0]), metric(candidates[0])
	for _, c := range candidates[1:] {
		v := metric(c)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return func(float64) float64 { return 0 }
	}
	span := hi - lo
	return func(v float64) float64 { return (v - lo) / span }
}

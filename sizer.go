package papertrader

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide maps raw text to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(NormalizeSymbol(s)) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, s)
}

// Order is a planned action produced by the Sizer and consumed once by the
// Ledger. Mentions, Sentiment and RankScore are carried through for audit.
type Order struct {
	ID        string  `json:"order_id"`
	Symbol    string  `json:"ticker"`
	Side      Side    `json:"side"`
	Shares    int64   `json:"shares"`
	Price     float64 `json:"price"`
	Mentions  int     `json:"mentions"`
	Sentiment float64 `json:"sentiment"`
	RankScore float64 `json:"rank_score"`
}

// newID returns the short random identifier used for orders and trades.
func newID() string { return uuid.NewString()[:8] }

// SizerConfig are the risk parameters of the Position Sizer. The zero value
// is not usable; start from DefaultSizerConfig or supply every field.
type SizerConfig struct {
	// Equity is the account equity each position is sized against.
	Equity float64 `json:"account_equity"`
	// RiskPerTrade is the fraction of equity allocated per position, in (0, 1].
	RiskPerTrade float64 `json:"risk_per_trade"`
	// MaxPositions caps how many orders one sizing pass may emit.
	MaxPositions int `json:"max_positions"`
	// MinSentiment drops candidates below this sentiment score.
	MinSentiment float64 `json:"min_sentiment"`
	// MinMentions drops candidates below this mention count.
	MinMentions int `json:"min_mentions"`
}

// DefaultSizerConfig returns the documented defaults: $10,000 equity, 2% risk
// per trade, at most 10 positions, sentiment ≥ 0.10 and mentions ≥ 3.
func DefaultSizerConfig() SizerConfig {
	return SizerConfig{
		Equity:       10_000,
		RiskPerTrade: 0.02,
		MaxPositions: 10,
		MinSentiment: 0.10,
		MinMentions:  3,
	}
}

// Validate checks the configuration once at the sizing boundary.
func (c SizerConfig) Validate() error {
	switch {
	case math.IsNaN(c.Equity) || c.Equity <= 0:
		return fmt.Errorf("%w: account equity must be positive, got %v", ErrInvalidConfig, c.Equity)
	case math.IsNaN(c.RiskPerTrade) || c.RiskPerTrade <= 0 || c.RiskPerTrade > 1:
		return fmt.Errorf("%w: risk per trade must be in (0, 1], got %v", ErrInvalidConfig, c.RiskPerTrade)
	case c.MaxPositions <= 0:
		return fmt.Errorf("%w: max positions must be positive, got %d", ErrInvalidConfig, c.MaxPositions)
	case math.IsNaN(c.MinSentiment):
		return fmt.Errorf("%w: min sentiment is NaN", ErrInvalidConfig)
	case c.MinMentions < 0:
		return fmt.Errorf("%w: min mentions must not be negative, got %d", ErrInvalidConfig, c.MinMentions)
	}
	return nil
}

// Size converts a ranked candidate list into whole-share BUY orders.
//
// Candidates failing the sentiment or mention thresholds are dropped, at most
// MaxPositions survive in rank order, and each survivor is sized at
// Equity × RiskPerTrade dollars against its last price, rounded down to whole
// shares. Candidates with a non-positive price or fewer than one affordable
// share are skipped. Every position is sized independently against total
// equity, not against cash remaining after earlier orders in the batch; the
// ledger's own funds check is the backstop when a batch oversubscribes.
//
// An empty result is a normal "no opportunities" outcome, not an error.
func Size(cfg SizerConfig, ranked []Candidate) ([]Order, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, c := range ranked {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	dollars := cfg.Equity * cfg.RiskPerTrade
	orders := make([]Order, 0, cfg.MaxPositions)
	taken := 0
	for _, c := range ranked {
		if c.Sentiment < cfg.MinSentiment || c.Mentions < cfg.MinMentions {
			continue
		}
		// the cap counts candidates taken, so a skip below is not backfilled
		if taken == cfg.MaxPositions {
			break
		}
		taken++
		if c.LastPrice <= 0 {
			continue
		}
		shares := int64(math.Floor(dollars / c.LastPrice))
		if shares < 1 {
			continue
		}
		orders = append(orders, Order{
			ID:        newID(),
			Symbol:    NormalizeSymbol(c.Symbol),
			Side:      SideBuy,
			Shares:    shares,
			Price:     c.LastPrice,
			Mentions:  c.Mentions,
			Sentiment: c.Sentiment,
			RankScore: c.RankScore,
		})
	}
	return orders, nil
}

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"github.com/trendlab/papertrader"
)

// Bar is one daily observation of a symbol's market activity.
type Bar struct {
	Close  float64
	Volume int64
}

// Provider supplies the price data the classifier and the screeners consume.
type Provider interface {
	// History returns up to days daily bars, oldest first.
	History(ctx context.Context, symbol string, days int) ([]Bar, error)
	// Quote returns the latest traded price.
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Closes extracts the closing prices of a bar series, oldest first.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// AvgDollarVolume is the mean of close times volume over the last ten bars,
// the liquidity measure the screen filters on.
func AvgDollarVolume(bars []Bar) float64 {
	if len(bars) > 10 {
		bars = bars[len(bars)-10:]
	}
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.Close * float64(b.Volume)
	}
	return sum / float64(len(bars))
}

// YahooProvider fetches quotes and daily history from Yahoo Finance.
// Histories are cached for a few minutes so a scan across many symbols does
// not hammer the upstream.
type YahooProvider struct {
	cache *historyCache
}

// NewYahooProvider returns a provider caching histories for ttl.
func NewYahooProvider(ttl time.Duration) (*YahooProvider, error) {
	cache, err := newHistoryCache(1<<20, ttl)
	if err != nil {
		return nil, fmt.Errorf("creating history cache: %w", err)
	}
	return &YahooProvider{cache: cache}, nil
}

func (p *YahooProvider) History(ctx context.Context, symbol string, days int) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = papertrader.NormalizeSymbol(symbol)
	key := fmt.Sprintf("%s/%d", symbol, days)
	if bars, ok := p.cache.get(key); ok {
		return bars, nil
	}

	// Twice the calendar span covers weekends and holidays.
	end := time.Now()
	start := end.AddDate(0, 0, -2*days)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, Bar{
			Close:  b.Close.InexactFloat64(),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", symbol, err)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	p.cache.set(key, bars)
	return bars, nil
}

func (p *YahooProvider) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	symbol = papertrader.NormalizeSymbol(symbol)
	q, err := quote.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("fetching quote for %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return q.RegularMarketPrice, nil
}

// FixtureProvider generates deterministic offline price data. Each symbol
// gets a stable base price, a gentle drift picked from its byte sum and a
// small alternating wiggle, so classifier output is varied but repeatable.
type FixtureProvider struct{}

func (FixtureProvider) History(ctx context.Context, symbol string, days int) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, nil
	}
	symbol = papertrader.NormalizeSymbol(symbol)
	base := demoPrice(symbol)
	drift := float64(byteSum(symbol)%3-1) * 0.004
	volume := int64(150_000 + 1_000*(byteSum(symbol)%100))

	bars := make([]Bar, days)
	for i := range bars {
		wiggle := 0.001
		if i%2 == 1 {
			wiggle = -0.001
		}
		step := float64(i - days/2)
		bars[i] = Bar{
			Close:  base * (1 + drift*step + wiggle),
			Volume: volume + int64(i%5)*2_000,
		}
	}
	return bars, nil
}

func (FixtureProvider) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return demoPrice(papertrader.NormalizeSymbol(symbol)), nil
}

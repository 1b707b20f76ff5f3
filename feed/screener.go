package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/trendlab/papertrader"
)

// Screener scrapes an HTML screener page (Finviz style) for candidates. It
// reads rows of a table with class "screener": symbol, last price and share
// volume in the first three cells. Mentions and sentiment stay zero; a
// screener knows prices, not chatter.
type Screener struct {
	url string
}

// NewScreener returns a screener source scraping url.
func NewScreener(url string) *Screener {
	return &Screener{url: url}
}

func (s *Screener) Name() string { return "screener" }

func (s *Screener) Candidates(ctx context.Context) ([]papertrader.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []papertrader.Candidate
	c := colly.NewCollector(colly.UserAgent("papertrader/1.0"))

	c.OnHTML("table.screener tr", func(e *colly.HTMLElement) {
		symbol := papertrader.NormalizeSymbol(e.ChildText("td:nth-of-type(1)"))
		if symbol == "" {
			// header row
			return
		}
		price, err := parsePrice(e.ChildText("td:nth-of-type(2)"))
		if err != nil {
			return
		}
		volume, err := parseVolume(e.ChildText("td:nth-of-type(3)"))
		if err != nil {
			return
		}
		candidates = append(candidates, papertrader.Candidate{
			Symbol:       symbol,
			LastPrice:    price,
			DollarVolume: price * float64(volume),
		})
	})

	var visitErr error
	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(s.url); err != nil {
		return nil, fmt.Errorf("scraping screener: %w", err)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("scraping screener: %w", visitErr)
	}
	return candidates, nil
}

func parsePrice(cell string) (float64, error) {
	cell = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), "$"))
	cell = strings.ReplaceAll(cell, ",", "")
	return strconv.ParseFloat(cell, 64)
}

func parseVolume(cell string) (int64, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	return strconv.ParseInt(cell, 10, 64)
}

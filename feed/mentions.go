package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-resty/resty/v2"

	"github.com/trendlab/papertrader"
)

// Mentions pulls a JSON mention feed (ApeWisdom style: a results array with
// ticker, mentions and sentiment per entry) and joins the latest price from
// the provider. Symbols whose price cannot be resolved are dropped from the
// set rather than failing the fetch.
type Mentions struct {
	client   *resty.Client
	url      string
	provider Provider
}

// NewMentions returns a mention feed source reading from url.
func NewMentions(url string, provider Provider) *Mentions {
	client := resty.New()
	client.SetTimeout(20 * time.Second)
	client.SetHeader("User-Agent", "papertrader/1.0")
	return &Mentions{client: client, url: url, provider: provider}
}

func (m *Mentions) Name() string { return "mentions" }

func (m *Mentions) Candidates(ctx context.Context) ([]papertrader.Candidate, error) {
	resp, err := m.client.R().SetContext(ctx).Get(m.url)
	if err != nil {
		return nil, fmt.Errorf("fetching mention feed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mention feed returned %s", resp.Status())
	}

	var jobj any
	if err := json.Unmarshal(resp.Body(), &jobj); err != nil {
		return nil, fmt.Errorf("decoding mention feed: %w", err)
	}

	tickers, err := jsonList(jobj, "$.results[*].ticker")
	if err != nil {
		return nil, err
	}
	mentions, err := jsonList(jobj, "$.results[*].mentions")
	if err != nil {
		return nil, err
	}
	sentiments, err := jsonList(jobj, "$.results[*].sentiment")
	if err != nil {
		return nil, err
	}
	if len(mentions) != len(tickers) || len(sentiments) != len(tickers) {
		return nil, fmt.Errorf("mention feed fields are unaligned: %d tickers, %d mentions, %d sentiments",
			len(tickers), len(mentions), len(sentiments))
	}

	candidates := make([]papertrader.Candidate, 0, len(tickers))
	for i := range tickers {
		symbol, ok := tickers[i].(string)
		if !ok || papertrader.NormalizeSymbol(symbol) == "" {
			continue
		}
		symbol = papertrader.NormalizeSymbol(symbol)

		count, ok := mentions[i].(float64)
		if !ok {
			continue
		}
		sentiment, ok := sentiments[i].(float64)
		if !ok {
			continue
		}

		price, err := m.provider.Quote(ctx, symbol)
		if err != nil {
			// a single unresolvable quote must not sink the scan
			continue
		}

		bars, err := m.provider.History(ctx, symbol, 10)
		if err != nil {
			bars = nil
		}

		candidates = append(candidates, papertrader.Candidate{
			Symbol:       symbol,
			Mentions:     int(count),
			Sentiment:    sentiment,
			LastPrice:    price,
			DollarVolume: AvgDollarVolume(bars),
		})
	}
	return candidates, nil
}

// jsonList evaluates a jsonpath that selects many values and always returns
// a slice, also when the path matched a single value.
func jsonList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok {
		return jlist, nil
	}
	return []any{jval}, nil
}

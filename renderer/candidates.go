package renderer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/trendlab/papertrader"
)

// CandidatesMarkdown renders a ranked candidate list, best first.
func CandidatesMarkdown(candidates []papertrader.Candidate) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Screen Results")
	if len(candidates) == 0 {
		doc.PlainText("No candidates passed the screen.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%d candidates, best first.", len(candidates)))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Ticker", "Mentions", "Sentiment", "Last", "Avg $ Volume", "Score"},
		Rows:   [][]string{},
	}
	for _, c := range candidates {
		table.Rows = append(table.Rows, []string{
			c.Symbol,
			strconv.Itoa(c.Mentions),
			sentiment(c.Sentiment),
			price(c.LastPrice),
			price(c.DollarVolume),
			score(c.RankScore),
		})
	}
	doc.Table(table)

	return doc.String()
}

// WriteCandidatesCSV exports ranked candidates with raw numeric values, one
// row per candidate in rank order.
func WriteCandidatesCSV(w io.Writer, candidates []papertrader.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "mentions", "avg_sentiment", "last", "avg_dollar_vol", "rank_score"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, c := range candidates {
		row := []string{
			c.Symbol,
			strconv.Itoa(c.Mentions),
			csvFloat(c.Sentiment),
			csvFloat(c.LastPrice),
			csvFloat(c.DollarVolume),
			csvFloat(c.RankScore),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", c.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
